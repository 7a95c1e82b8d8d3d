package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// Tab is the active authentication screen.
type Tab string

const (
	TabLogin    Tab = "login"
	TabRegister Tab = "register"
	TabOTP      Tab = "otp"
	TabReset    Tab = "reset"
)

// Channel is the identification channel the user chose.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// Flow discriminates which operation an in-progress OTP verification
// belongs to.
type Flow string

const (
	FlowLogin    Flow = "login"
	FlowRegister Flow = "register"
	FlowReset    Flow = "reset"
)

// OTPLength is the number of single-digit code fields.
const OTPLength = 6

// Form holds the currently entered credentials.
type Form struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// Event is a notification to the host UI.
type Event int

const (
	// EventChanged fires whenever tab, message or form state changes.
	EventChanged Event = iota
	// EventClosed asks the host to dismiss the authentication surface.
	EventClosed
)

// AuthAPI is the slice of the backend the machine talks to.
type AuthAPI interface {
	Login(ctx context.Context, req api.AuthRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.AuthRequest) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, req api.AuthRequest) (*api.AuthResponse, error)
}

// CartHooks is the cart engine surface driven by authentication changes.
type CartHooks interface {
	HandleLogin(ctx context.Context, userID string)
	HandleLogout(ctx context.Context)
}

// Machine is the authentication and OTP state machine. All methods are safe
// for use from the single UI goroutine; operations never let a transport
// error escape; failures become user-visible messages instead.
type Machine struct {
	client  AuthAPI
	store   store.Store
	session *Session
	cart    CartHooks
	log     logging.Logger

	mu          sync.Mutex
	tab         Tab
	channel     Channel
	usePassword bool
	form        Form
	digits      [OTPLength]string
	flow        Flow
	verifyToken string
	message     string

	subsMu sync.Mutex
	subs   []chan Event
}

func NewMachine(client AuthAPI, s store.Store, session *Session, cart CartHooks, log logging.Logger) *Machine {
	return &Machine{
		client:  client,
		store:   s,
		session: session,
		cart:    cart,
		log:     log,
		tab:     TabLogin,
		channel: ChannelEmail,
	}
}

// Subscribe returns a channel receiving machine events. Sends are
// non-blocking and coalesce under a slow consumer.
func (m *Machine) Subscribe() <-chan Event {
	ch := make(chan Event, 4)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *Machine) publish(e Event) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// ---- state accessors ----

func (m *Machine) Tab() Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tab
}

func (m *Machine) Channel() Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channel
}

func (m *Machine) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Message returns the last user-visible outcome message.
func (m *Machine) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

func (m *Machine) UsePassword() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usePassword
}

// Digits returns the current OTP buffer.
func (m *Machine) Digits() [OTPLength]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.digits
}

func (m *Machine) User() *models.User { return m.session.User() }

// ---- navigation ----

// SetTab navigates between screens. Moving between login/register/reset
// resets the form and the OTP buffer; entering the OTP screen does not, as
// verification resubmits the just-entered credentials.
func (m *Machine) SetTab(tab Tab) {
	m.mu.Lock()
	if tab != TabOTP {
		m.form = Form{}
		m.digits = [OTPLength]string{}
		m.flow = ""
		m.verifyToken = ""
		m.usePassword = false
	}
	m.tab = tab
	m.message = ""
	m.mu.Unlock()
	m.publish(EventChanged)
}

// SetChannel switches the identification channel and clears the field
// belonging to the other channel, so only one identifier is ever submitted.
func (m *Machine) SetChannel(ch Channel) {
	m.mu.Lock()
	m.channel = ch
	switch ch {
	case ChannelEmail:
		m.form.Mobile = ""
	case ChannelMobile:
		m.form.Email = ""
	}
	m.mu.Unlock()
	m.publish(EventChanged)
}

// SetUsePassword toggles password login. Meaningful only on the login tab.
func (m *Machine) SetUsePassword(v bool) {
	m.mu.Lock()
	m.usePassword = v
	m.mu.Unlock()
	m.publish(EventChanged)
}

func (m *Machine) EnterName(v string)     { m.setField(func(f *Form) { f.Name = v }) }
func (m *Machine) EnterEmail(v string)    { m.setField(func(f *Form) { f.Email = v }) }
func (m *Machine) EnterMobile(v string)   { m.setField(func(f *Form) { f.Mobile = v }) }
func (m *Machine) EnterPassword(v string) { m.setField(func(f *Form) { f.Password = v }) }

func (m *Machine) setField(apply func(*Form)) {
	m.mu.Lock()
	apply(&m.form)
	m.mu.Unlock()
	m.publish(EventChanged)
}

// EnterDigit writes one OTP character at position i and returns the next
// focus position: i+1 after a digit (except on the last field), i unchanged
// when the character is rejected.
func (m *Machine) EnterDigit(i int, ch rune) int {
	if i < 0 || i >= OTPLength {
		return i
	}
	if ch < '0' || ch > '9' {
		return i
	}

	m.mu.Lock()
	m.digits[i] = string(ch)
	m.mu.Unlock()
	m.publish(EventChanged)

	if i < OTPLength-1 {
		return i + 1
	}
	return i
}

func (m *Machine) code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.digits[:], "")
}

func (m *Machine) setMessage(msg string) {
	m.mu.Lock()
	m.message = msg
	m.mu.Unlock()
	m.publish(EventChanged)
}

// messageOr returns the server's message, falling back to a generic one.
func messageOr(resp *api.AuthResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}

// authRequest snapshots the form into the shared request shape.
func (m *Machine) authRequest() api.AuthRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return api.AuthRequest{
		Name:     m.form.Name,
		Email:    m.form.Email,
		Mobile:   m.form.Mobile,
		Password: m.form.Password,
	}
}

// ---- operations ----

// RequestCode asks the backend to send a one-time code for the current
// tab's flow. On acknowledgment the machine stores the verification token
// and moves to the OTP screen; otherwise the server's message is surfaced and
// the state stays put.
func (m *Machine) RequestCode(ctx context.Context) {
	tab := m.Tab()
	req := m.authRequest()

	var (
		resp *api.AuthResponse
		err  error
		flow Flow
	)

	switch tab {
	case TabLogin:
		req.OTPLogin = "1"
		flow = FlowLogin
		resp, err = m.client.Login(ctx, req)
	case TabRegister:
		req.OTP = "0"
		flow = FlowRegister
		resp, err = m.client.Register(ctx, req)
	case TabReset:
		req.OTP = "0"
		flow = FlowReset
		resp, err = m.client.ForgotPassword(ctx, req)
	default:
		return
	}

	if err != nil {
		m.log.Warn(ctx, "request code failed", "flow", string(flow), "error", err)
		m.setMessage("could not send the code, please try again")
		return
	}
	if !resp.OTPSent {
		m.setMessage(messageOr(resp, "could not send the code, please try again"))
		return
	}

	m.mu.Lock()
	m.flow = flow
	m.verifyToken = resp.VerifyToken
	m.tab = TabOTP
	m.message = ""
	m.mu.Unlock()
	m.publish(EventChanged)
}

// PasswordLogin submits identifier + password. Success finalizes the
// session; failure surfaces a message and stays on the login tab.
func (m *Machine) PasswordLogin(ctx context.Context) {
	req := m.authRequest()

	resp, err := m.client.Login(ctx, req)
	if err != nil {
		m.log.Warn(ctx, "password login failed", "error", err)
		m.setMessage("login failed, please try again")
		return
	}
	if !resp.Authenticated() {
		m.setMessage(messageOr(resp, "login failed, please try again"))
		return
	}

	m.finalize(ctx, resp)
}

// VerifyCode submits the entered six-digit code together with the stored
// verification token, completing whichever flow requested the code.
func (m *Machine) VerifyCode(ctx context.Context) {
	code := m.code()
	if len(code) != OTPLength {
		m.setMessage("enter the 6-digit code")
		return
	}

	m.mu.Lock()
	flow := m.flow
	req := api.AuthRequest{
		Name:        m.form.Name,
		Email:       m.form.Email,
		Mobile:      m.form.Mobile,
		Password:    m.form.Password,
		OTP:         code,
		VerifyToken: m.verifyToken,
	}
	m.mu.Unlock()

	switch flow {
	case FlowReset:
		req.Confirm = "1"
		resp, err := m.client.ForgotPassword(ctx, req)
		if err != nil || (resp.Status == "" && resp.Message == "") {
			m.log.Warn(ctx, "password reset verification failed", "error", err)
			m.setMessage("verification failed, please try again")
			return
		}
		if resp.Status == "" {
			// server rejected the code; keep the OTP screen and the digits
			m.setMessage(messageOr(resp, "verification failed, please try again"))
			return
		}
		m.mu.Lock()
		m.form = Form{}
		m.digits = [OTPLength]string{}
		m.flow = ""
		m.verifyToken = ""
		m.tab = TabLogin
		m.message = messageOr(resp, "password updated, please sign in")
		m.mu.Unlock()
		m.publish(EventChanged)

	case FlowLogin, FlowRegister:
		var (
			resp *api.AuthResponse
			err  error
		)
		if flow == FlowLogin {
			req.Verify = "1"
			resp, err = m.client.Login(ctx, req)
		} else {
			resp, err = m.client.Register(ctx, req)
		}
		if err != nil {
			m.log.Warn(ctx, "code verification failed", "flow", string(flow), "error", err)
			m.setMessage("verification failed, please try again")
			return
		}
		if !resp.Authenticated() {
			m.setMessage(messageOr(resp, "verification failed, please try again"))
			return
		}
		m.finalize(ctx, resp)

	default:
		m.setMessage("verification failed, please try again")
	}
}

// finalize commits a successful authentication: persist identity, hand the
// user id to the cart engine for the one-time guest merge, reset the OTP
// state and ask the host to dismiss the auth surface.
func (m *Machine) finalize(ctx context.Context, resp *api.AuthResponse) {
	now := m.session.now()

	userRaw, err := json.Marshal(resp.User)
	if err != nil {
		m.log.Warn(ctx, "failed to encode user", "error", err)
	}
	if err := m.store.SetMany(ctx, map[string][]byte{
		store.KeyUser:              userRaw,
		store.KeyUserToken:         []byte(resp.Token),
		store.KeyUserTokenIssuedAt: []byte(now.Format(time.RFC3339)),
	}); err != nil {
		m.log.Warn(ctx, "failed to persist identity", "error", err)
	}

	m.session.set(resp.User, resp.Token, now)
	m.cart.HandleLogin(ctx, resp.User.ID)

	m.mu.Lock()
	m.digits = [OTPLength]string{}
	m.form = Form{}
	m.flow = ""
	m.verifyToken = ""
	m.tab = TabLogin
	m.message = ""
	m.mu.Unlock()

	m.log.Info(ctx, "authenticated", "user_id", resp.User.ID)
	m.publish(EventClosed)
}

// Logout destroys the persisted identity and switches the cart back to
// guest mode.
func (m *Machine) Logout(ctx context.Context) {
	for _, key := range []string{store.KeyUser, store.KeyUserToken, store.KeyUserTokenIssuedAt} {
		if err := m.store.Delete(ctx, key); err != nil {
			m.log.Warn(ctx, "failed to clear identity", "key", key, "error", err)
		}
	}
	m.session.clear()
	m.cart.HandleLogout(ctx)
	m.publish(EventChanged)
}
