package dialog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/style"
	"github.com/miosa/aidesk-tui/ui/common"
)

// Profiling choices. Values are sent lower-cased.
var (
	ProfileGenres       = []string{"Action", "Comedy", "Romance", "Thriller", "SF", "Animation"}
	ProfileGoals        = []string{"Backend", "Frontend", "AI", "Marketing", "Design"}
	ProfileContentTypes = []string{"Blog", "YouTube", "Podcast"}
)

// Tag types of the profile tags.
const (
	TagLearning    = "learning"
	TagContentType = "content_type"
)

const (
	profileGenreScore = 5
	profileTagWeight  = 1.0
)

type profileStep int

const (
	stepGenres profileStep = iota
	stepGoals
	stepContent
	profileSteps
)

func (s profileStep) label() string {
	switch s {
	case stepGenres:
		return "Favourite genres"
	case stepGoals:
		return "Learning goals"
	default:
		return "Content type"
	}
}

// ProfileModel is the three-step profiling wizard.
//
// space toggles a choice, enter goes to the next step and saves on the
// last one, backspace goes back, esc answers "later". At least one genre
// is required to continue.
type ProfileModel struct {
	step    profileStep
	cursor  int
	genres  map[int]bool
	goals   map[int]bool
	content int // -1 when unset
	locale  string
}

// NewProfile returns the wizard. locale is sent with the profile.
func NewProfile(locale string) ProfileModel {
	if locale == "" {
		locale = "en"
	}
	return ProfileModel{
		genres:  make(map[int]bool),
		goals:   make(map[int]bool),
		content: -1,
		locale:  locale,
	}
}

// Title implements Dialog.
func (m ProfileModel) Title() string { return "Tell us a little about you" }

// Width implements Dialog.
func (m ProfileModel) Width() int { return 60 }

// Step returns the zero-based current step.
func (m ProfileModel) Step() int { return int(m.step) }

func (m ProfileModel) options() []string {
	switch m.step {
	case stepGenres:
		return ProfileGenres
	case stepGoals:
		return ProfileGoals
	default:
		return ProfileContentTypes
	}
}

func (m ProfileModel) chosen(i int) bool {
	switch m.step {
	case stepGenres:
		return m.genres[i]
	case stepGoals:
		return m.goals[i]
	default:
		return m.content == i
	}
}

// CanAdvance reports whether enter moves on from the current step.
func (m ProfileModel) CanAdvance() bool {
	for _, on := range m.genres {
		if on {
			return true
		}
	}
	return false
}

// Update handles keyboard input.
func (m ProfileModel) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kp.String() {
	case "esc":
		return nil, func() tea.Msg { return ProfileLater{} }
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.options())-1 {
			m.cursor++
		}
	case "space", " ":
		m.toggle()
	case "backspace", "left":
		if m.step > stepGenres {
			m.step--
			m.cursor = 0
		}
	case "enter", "right":
		if !m.CanAdvance() {
			return m, nil
		}
		if m.step < profileSteps-1 {
			m.step++
			m.cursor = 0
			return m, nil
		}
		p := m.Profile()
		return nil, func() tea.Msg { return ProfileSubmit{Profile: p} }
	}
	return m, nil
}

func (m *ProfileModel) toggle() {
	switch m.step {
	case stepGenres:
		m.genres[m.cursor] = !m.genres[m.cursor]
	case stepGoals:
		m.goals[m.cursor] = !m.goals[m.cursor]
	default:
		if m.content == m.cursor {
			m.content = -1
		} else {
			m.content = m.cursor
		}
	}
}

// Profile builds the profile from the current answers.
func (m ProfileModel) Profile() client.Profile {
	p := client.Profile{Locale: m.locale, Consent: true}
	for i, g := range ProfileGenres {
		if m.genres[i] {
			p.Genres = append(p.Genres, client.GenrePref{Genre: strings.ToLower(g), Score: profileGenreScore})
		}
	}
	for i, g := range ProfileGoals {
		if m.goals[i] {
			p.Tags = append(p.Tags, client.TagPref{TagType: TagLearning, Tag: strings.ToLower(g), Weight: profileTagWeight})
		}
	}
	if m.content >= 0 && m.content < len(ProfileContentTypes) {
		p.Tags = append(p.Tags, client.TagPref{
			TagType: TagContentType,
			Tag:     strings.ToLower(ProfileContentTypes[m.content]),
			Weight:  profileTagWeight,
		})
	}
	return p
}

// View renders the step indicator, the choices and the buttons.
func (m ProfileModel) View() string {
	var sb strings.Builder

	steps := make([]string, profileSteps)
	for s := stepGenres; s < profileSteps; s++ {
		label := fmt.Sprintf("%d %s", s+1, s.label())
		if s == m.step {
			steps[s] = style.RadioOn.Render(label)
		} else {
			steps[s] = style.RadioOff.Render(label)
		}
	}
	sb.WriteString(strings.Join(steps, style.Faint.Render(" › ")))
	sb.WriteString("\n\n")

	single := m.step == stepContent
	for i, opt := range m.options() {
		var box string
		switch {
		case single && m.chosen(i):
			box = style.RadioOn.Render("(●) ")
		case single:
			box = style.RadioOff.Render("( ) ")
		case m.chosen(i):
			box = style.RadioOn.Render("[x] ")
		default:
			box = style.RadioOff.Render("[ ] ")
		}
		line := box + opt
		if i == m.cursor {
			sb.WriteString(style.ListSelected.Render("> " + line))
		} else {
			sb.WriteString("  " + style.ListNormal.Render(line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	next := "Next"
	if m.step == profileSteps-1 {
		next = "Done"
	}
	sb.WriteString(common.ButtonGroup([]common.ButtonItem{
		{Label: "Later", Shortcut: "esc"},
		{Label: next, Shortcut: "enter", Disabled: !m.CanAdvance()},
	}, 1))
	sb.WriteString("\n\n")
	sb.WriteString(RenderHelpBar([]HelpItem{
		{Key: "space", Desc: "toggle"},
		{Key: "enter", Desc: "next"},
		{Key: "backspace", Desc: "back"},
	}, m.Width()-6))
	return sb.String()
}
