package dialog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// Purpose is what a picked file is uploaded for.
type Purpose int

const (
	PurposeSummarize Purpose = iota
	PurposeVoice
)

// Extensions returns the file extensions accepted for the purpose.
func (p Purpose) Extensions() []string {
	if p == PurposeVoice {
		return []string{".wav", ".mp3", ".m4a", ".ogg", ".webm", ".flac"}
	}
	return []string{".pdf", ".txt"}
}

func (p Purpose) String() string {
	if p == PurposeVoice {
		return "voice note"
	}
	return "file to summarize"
}

// FileEntry is a single directory or file entry in the file picker.
type FileEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// FilePickerModel is a keyboard-driven file browser that only lists the
// files its purpose accepts.
//
// Emits FilePicked on selection. Esc closes it.
type FilePickerModel struct {
	purpose    Purpose
	exts       []string
	currentDir string
	entries    []FileEntry
	filtered   []FileEntry
	cursor     int
	filter     InputCursor
	offset     int
	pageSize   int
	err        string
}

// NewFilePicker returns a picker for purpose. Call SetDir before showing.
func NewFilePicker(purpose Purpose) FilePickerModel {
	return FilePickerModel{
		purpose:  purpose,
		exts:     purpose.Extensions(),
		pageSize: 14,
		filter:   InputCursor{Focused: true},
	}
}

// Purpose returns what the picked file is for.
func (m FilePickerModel) Purpose() Purpose { return m.purpose }

// Dir returns the directory being shown.
func (m FilePickerModel) Dir() string { return m.currentDir }

// Entries returns the entries matching the filter.
func (m FilePickerModel) Entries() []FileEntry { return m.filtered }

// SetDir shows path. The model is unchanged when path cannot be read.
func (m *FilePickerModel) SetDir(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	des, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("read %s: %w", abs, err)
	}

	var dirs, files []FileEntry
	for _, de := range des {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if de.IsDir() {
			dirs = append(dirs, FileEntry{Name: name, IsDir: true})
			continue
		}
		if !m.accepts(name) {
			continue
		}
		var size int64
		if info, err := de.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, FileEntry{Name: name, Size: size})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	m.currentDir = abs
	m.entries = append(dirs, files...)
	m.filter.SetValue("")
	m.err = ""
	m.applyFilter()
	return nil
}

func (m FilePickerModel) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// SetSize fits the page to a terminal of height h.
func (m *FilePickerModel) SetSize(_, h int) {
	m.pageSize = max(4, h-14)
	m.scrollToCursor()
}

func (m *FilePickerModel) applyFilter() {
	q := strings.ToLower(m.filter.Value)
	m.filtered = m.filtered[:0:0]
	for _, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.Name), q) {
			m.filtered = append(m.filtered, e)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *FilePickerModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
	m.offset = max(0, m.offset)
}

// Title implements Dialog.
func (m FilePickerModel) Title() string { return "Select a " + m.purpose.String() }

// Width implements Dialog.
func (m FilePickerModel) Width() int { return 72 }

// Update handles keyboard input.
//
//	↑ ↓       move
//	enter     enter directory or pick file
//	backspace remove a filter char, or go up when the filter is empty
//	esc       close
//	text      filter
func (m FilePickerModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.Code {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.scrollToCursor()
		}
		return m, nil
	case tea.KeyEnter:
		if m.cursor >= len(m.filtered) {
			return m, nil
		}
		entry := m.filtered[m.cursor]
		target := filepath.Join(m.currentDir, entry.Name)
		if entry.IsDir {
			if err := m.SetDir(target); err != nil {
				m.err = err.Error()
			}
			return m, nil
		}
		purpose := m.purpose
		return nil, func() tea.Msg { return FilePicked{Path: target, Purpose: purpose} }
	case tea.KeyEscape:
		return nil, nil
	case tea.KeyBackspace:
		if m.filter.Value == "" {
			if parent := filepath.Dir(m.currentDir); parent != m.currentDir {
				if err := m.SetDir(parent); err != nil {
					m.err = err.Error()
				}
			}
			return m, nil
		}
	}

	before := m.filter.Value
	if m.filter.HandleKey(kp) && m.filter.Value != before {
		m.applyFilter()
	}
	return m, nil
}

// View renders the current path, the filter, the entries and the help bar.
func (m FilePickerModel) View() string {
	w := m.Width() - 6
	var sb strings.Builder

	sb.WriteString(style.Link.Render(truncatePathLeft(m.currentDir, w)))
	sb.WriteString("\n")
	sb.WriteString(style.Hint.Render("accepts " + strings.Join(m.exts, " ")))
	sb.WriteString("\n" + common.Divider(w) + "\n")

	sb.WriteString(style.DialogHelpKey.Render("Filter: "))
	if m.filter.Value == "" {
		sb.WriteString(style.Faint.Render("type to filter…"))
	} else {
		sb.WriteString(m.filter.View())
	}
	sb.WriteString("\n" + common.Divider(w) + "\n")

	if m.err != "" {
		sb.WriteString(style.ErrorText.Render(common.Truncate(m.err, w)) + "\n")
	}

	if len(m.filtered) == 0 {
		sb.WriteString(style.Faint.Render("  No matching files") + "\n")
	} else {
		end := min(m.offset+m.pageSize, len(m.filtered))
		if m.offset > 0 {
			sb.WriteString(style.Faint.Render("  ↑ more above") + "\n")
		}
		for i := m.offset; i < end; i++ {
			sb.WriteString(renderFileEntry(m.filtered[i], i == m.cursor))
			sb.WriteString("\n")
		}
		if end < len(m.filtered) {
			sb.WriteString(style.Faint.Render("  ↓ more below") + "\n")
		}
	}

	sb.WriteString(common.Divider(w) + "\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "↑↓", Desc: "navigate"},
		{Key: "enter", Desc: "open/select"},
		{Key: "backspace", Desc: "up"},
		{Key: "esc", Desc: "cancel"},
	}, w))
	return sb.String()
}

func renderFileEntry(entry FileEntry, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = style.ListSelected.Render("> ")
	}

	var icon, name string
	if entry.IsDir {
		icon = lipgloss.NewStyle().Foreground(style.Primary).Render("▶ ")
		st := lipgloss.NewStyle().Foreground(style.Secondary)
		if isCursor {
			st = st.Bold(true)
		}
		name = st.Render(entry.Name + "/")
	} else {
		icon = "  "
		if isCursor {
			name = lipgloss.NewStyle().Foreground(style.Muted).Bold(true).Render(entry.Name)
		} else {
			name = style.Faint.Render(entry.Name)
		}
	}

	var size string
	if !entry.IsDir && entry.Size > 0 {
		size = style.Faint.Render("  " + formatSize(entry.Size))
	}
	return cursor + icon + name + size
}

// truncatePathLeft shortens a path from the left to maxW characters.
func truncatePathLeft(path string, maxW int) string {
	if len(path) <= maxW {
		return path
	}
	if maxW <= 3 {
		return "..."
	}
	return "..." + path[len(path)-(maxW-3):]
}

// formatSize returns a human-readable file size.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
