// Package tui holds the terminal login dialog.
package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/form"
	"storefront/internal/services"
	"storefront/internal/session"
)

// ErrCancelled is returned by RunLogin when the dialog is closed without signing in.
var ErrCancelled = errors.New("login cancelled")

// Authenticator submits the login forms.
type Authenticator interface {
	SignIn(ctx context.Context, f *form.Manager[form.Field]) (services.Destination, error)
	SignUp(ctx context.Context, f *form.Manager[form.Field]) (services.Destination, error)
}

var (
	signInFields = []form.Field{form.FieldEmail, form.FieldPassword}
	signUpFields = []form.Field{form.FieldFirstName, form.FieldLastName, form.FieldEmail, form.FieldPassword}

	fieldLabels = map[form.Field]string{
		form.FieldFirstName: "First name",
		form.FieldLastName:  "Last name",
		form.FieldEmail:     "Email",
		form.FieldPassword:  "Password",
	}
)

// storeChangedMsg tells the dialog that the session store changed.
type storeChangedMsg struct{}

type authResultMsg struct {
	destination services.Destination
	err         error
}

// LoginModel is the Bubble Tea model of the login dialog. The active tab
// follows the store's login mode and is refreshed on every store change.
type LoginModel struct {
	ctx    context.Context
	store  *session.Store
	auth   Authenticator
	signIn *form.Manager[form.Field]
	signUp *form.Manager[form.Field]

	loginMode session.LoginMode

	focus       int
	submitting  bool
	serverErr   string
	destination services.Destination
	cancelled   bool
	width       int
}

// NewLoginModel creates the dialog model. The caller opens the login dialog on
// the store before running it.
func NewLoginModel(ctx context.Context, store *session.Store, auth Authenticator) LoginModel {
	return LoginModel{
		ctx:    ctx,
		store:  store,
		auth:   auth,
		signIn: form.SignInForm(),
		signUp: form.SignUpForm(),

		loginMode: store.LoginMode(),
	}
}

func (m LoginModel) mode() session.LoginMode {
	return m.loginMode
}

func (m LoginModel) active() *form.Manager[form.Field] {
	if m.mode() == session.LoginModeSignUp {
		return m.signUp
	}
	return m.signIn
}

func (m LoginModel) fields() []form.Field {
	if m.mode() == session.LoginModeSignUp {
		return signUpFields
	}
	return signInFields
}

func (m LoginModel) focused() form.Field {
	return m.fields()[m.focus]
}

// Destination is where to go after a successful login, or "".
func (m LoginModel) Destination() services.Destination {
	return m.destination
}

// Cancelled reports whether the dialog was closed without signing in.
func (m LoginModel) Cancelled() bool {
	return m.cancelled
}

func (m LoginModel) Init() tea.Cmd {
	return nil
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case storeChangedMsg:
		return m.syncStore()
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.serverErr = msg.err.Error()
			return m, nil
		}
		m.active().Reset()
		m.destination = msg.destination
		return m, tea.Quit
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m LoginModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil
	}

	f := m.active()
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		f.Reset()
		m.store.CloseLoginDialog()
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyCtrlT:
		return m.switchTab(), nil
	case tea.KeyTab, tea.KeyDown:
		f.Blur(m.focused())
		m.focus = (m.focus + 1) % len(m.fields())
	case tea.KeyShiftTab, tea.KeyUp:
		f.Blur(m.focused())
		m.focus = (m.focus + len(m.fields()) - 1) % len(m.fields())
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyBackspace:
		value := []rune(f.Value(m.focused()))
		if len(value) > 0 {
			f.Change(m.focused(), string(value[:len(value)-1]))
		}
	case tea.KeySpace:
		f.Change(m.focused(), f.Value(m.focused())+" ")
	case tea.KeyRunes:
		f.Change(m.focused(), f.Value(m.focused())+string(msg.Runes))
	}
	return m, nil
}

// syncStore follows a tab switch or a close made outside the dialog. While a
// submission is in flight the auth result decides the outcome.
func (m LoginModel) syncStore() (tea.Model, tea.Cmd) {
	if m.submitting || m.destination != "" || m.cancelled {
		return m, nil
	}
	if !m.store.LoginDialogOpen() {
		m.active().Reset()
		m.cancelled = true
		return m, tea.Quit
	}
	if mode := m.store.LoginMode(); mode != m.loginMode {
		m.signIn.Reset()
		m.signUp.Reset()
		m.loginMode = mode
		m.focus = 0
		m.serverErr = ""
	}
	return m, nil
}

func (m LoginModel) switchTab() LoginModel {
	m.signIn.Reset()
	m.signUp.Reset()
	next := session.LoginModeSignUp
	if m.mode() == session.LoginModeSignUp {
		next = session.LoginModeSignIn
	}
	m.store.HandleLoginDialogOpen(true, next)
	m.loginMode = next
	m.focus = 0
	m.serverErr = ""
	return m
}

func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	f := m.active()
	m.serverErr = ""
	if !f.ValidateAll() {
		// Touch every field so the failing ones are shown.
		for _, field := range m.fields() {
			f.Blur(field)
		}
		return m, nil
	}

	// The command runs off the UI goroutine, so it submits its own copy.
	sub := form.SignInForm()
	if m.mode() == session.LoginModeSignUp {
		sub = form.SignUpForm()
	}
	for field, value := range f.Values() {
		sub.Change(field, value)
	}

	m.submitting = true
	ctx, auth, mode := m.ctx, m.auth, m.mode()
	return m, func() tea.Msg {
		var dest services.Destination
		var err error
		if mode == session.LoginModeSignUp {
			dest, err = auth.SignUp(ctx, sub)
		} else {
			dest, err = auth.SignIn(ctx, sub)
		}
		return authResultMsg{destination: dest, err: err}
	}
}

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#b4befe")).
			Padding(1, 2)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#cdd6f4"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	focusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

func (m LoginModel) View() string {
	var b strings.Builder

	signInTab, signUpTab := activeTabStyle, inactiveTabStyle
	if m.mode() == session.LoginModeSignUp {
		signInTab, signUpTab = inactiveTabStyle, activeTabStyle
	}
	b.WriteString(signInTab.Render("Sign in") + "   " + signUpTab.Render("Create account"))
	b.WriteString("\n\n")

	f := m.active()
	for i, field := range m.fields() {
		value := f.Value(field)
		if field == form.FieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}

		label := labelStyle.Render(fieldLabels[field])
		if i == m.focus {
			label = focusStyle.Render("> " + fieldLabels[field])
			value += "_"
		}
		b.WriteString(label + "\n  " + value + "\n")
		if f.HasError(field) {
			b.WriteString("  " + errorStyle.Render(f.Error(field)) + "\n")
		}
	}

	if m.submitting {
		b.WriteString("\n" + hintStyle.Render("Submitting..."))
	}
	if m.serverErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.serverErr))
	}
	b.WriteString("\n" + hintStyle.Render("tab: next field • ctrl+t: switch tab • enter: submit • esc: close"))

	style := dialogStyle
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(b.String())
}

// RunLogin opens the login dialog in mode and runs it until the user signs
// in or closes it.
func RunLogin(ctx context.Context, store *session.Store, auth Authenticator, mode session.LoginMode, opts ...tea.ProgramOption) (services.Destination, error) {
	store.OpenLoginDialog(mode)
	p := tea.NewProgram(NewLoginModel(ctx, store, auth), opts...)
	// Send blocks until the event loop reads it, and the loop itself may be
	// the goroutine changing the store.
	unsubscribe := store.Subscribe(func(session.Snapshot) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(LoginModel)
	if !ok || m.Cancelled() {
		return "", ErrCancelled
	}
	return m.Destination(), nil
}
