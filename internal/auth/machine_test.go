package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// ---- fakes ----

type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.m[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = map[string][]byte{}
	return nil
}

// fakeAuthAPI records the last request per endpoint and plays back canned
// responses.
type fakeAuthAPI struct {
	LoginReqs    []api.AuthRequest
	LoginResp    *api.AuthResponse
	LoginErr     error
	RegisterReqs []api.AuthRequest
	RegisterResp *api.AuthResponse
	RegisterErr  error
	ForgotReqs   []api.AuthRequest
	ForgotResp   *api.AuthResponse
	ForgotErr    error
}

func (f *fakeAuthAPI) Login(_ context.Context, req api.AuthRequest) (*api.AuthResponse, error) {
	f.LoginReqs = append(f.LoginReqs, req)
	return f.LoginResp, f.LoginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, req api.AuthRequest) (*api.AuthResponse, error) {
	f.RegisterReqs = append(f.RegisterReqs, req)
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeAuthAPI) ForgotPassword(_ context.Context, req api.AuthRequest) (*api.AuthResponse, error) {
	f.ForgotReqs = append(f.ForgotReqs, req)
	return f.ForgotResp, f.ForgotErr
}

type fakeCart struct {
	loginIDs   []string
	logoutHits int
}

func (f *fakeCart) HandleLogin(_ context.Context, userID string) {
	f.loginIDs = append(f.loginIDs, userID)
}

func (f *fakeCart) HandleLogout(_ context.Context) { f.logoutHits++ }

func newTestMachine(t *testing.T) (*Machine, *fakeAuthAPI, *fakeCart, *memStore, *Session) {
	t.Helper()
	client := &fakeAuthAPI{}
	s := newMemStore()
	sess := NewSession(24 * time.Hour)
	cart := &fakeCart{}
	m := NewMachine(client, s, sess, cart, logging.NewNop())
	return m, client, cart, s, sess
}

// ---- TESTS ----

func TestSetTab_ResetsFormExceptOTP(t *testing.T) {
	m, _, _, _, _ := newTestMachine(t)

	m.EnterEmail("a@b.test")
	m.EnterPassword("pw")
	m.EnterDigit(0, '1')

	m.SetTab(TabRegister)
	require.Equal(t, Form{}, m.Form())
	require.Equal(t, [OTPLength]string{}, m.Digits())

	// entering the OTP tab keeps the just-entered credentials
	m.EnterEmail("a@b.test")
	m.SetTab(TabOTP)
	require.Equal(t, "a@b.test", m.Form().Email)
}

func TestSetChannel_ClearsOppositeField(t *testing.T) {
	m, _, _, _, _ := newTestMachine(t)

	m.EnterName("Ann")
	m.EnterEmail("a@b.test")
	m.EnterPassword("pw")

	m.SetChannel(ChannelMobile)

	f := m.Form()
	require.Equal(t, "", f.Email)
	require.Equal(t, "Ann", f.Name)
	require.Equal(t, "pw", f.Password)

	m.EnterMobile("5550100")
	m.SetChannel(ChannelEmail)
	require.Equal(t, "", m.Form().Mobile)
}

func TestEnterDigit(t *testing.T) {
	m, _, _, _, _ := newTestMachine(t)

	// digit advances focus
	require.Equal(t, 1, m.EnterDigit(0, '4'))
	require.Equal(t, "4", m.Digits()[0])

	// non-digit rejected, field unchanged, focus stays
	require.Equal(t, 1, m.EnterDigit(1, 'x'))
	require.Equal(t, "", m.Digits()[1])

	// last field does not advance
	require.Equal(t, OTPLength-1, m.EnterDigit(OTPLength-1, '9'))

	// out of range is ignored
	require.Equal(t, OTPLength, m.EnterDigit(OTPLength, '1'))
}

func TestRequestCode_LoginFlowTransitionsToOTP(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{OTPSent: true, VerifyToken: "vt-1"}

	m.EnterEmail("a@b.test")
	m.RequestCode(context.Background())

	require.Equal(t, TabOTP, m.Tab())
	require.Len(t, client.LoginReqs, 1)
	require.Equal(t, "1", client.LoginReqs[0].OTPLogin)
	require.Equal(t, "a@b.test", client.LoginReqs[0].Email)
}

func TestRequestCode_NoAcknowledgmentStaysPut(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{Message: "unknown account"}

	m.EnterEmail("a@b.test")
	m.RequestCode(context.Background())

	require.Equal(t, TabLogin, m.Tab())
	require.Equal(t, "unknown account", m.Message())
}

func TestRequestCode_TransportFailureSurfacesGenericMessage(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.LoginErr = context.DeadlineExceeded

	m.RequestCode(context.Background())

	require.Equal(t, TabLogin, m.Tab())
	require.NotEmpty(t, m.Message())
}

func TestRequestCode_RegisterUsesOTPDiscriminator(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.RegisterResp = &api.AuthResponse{OTPSent: true, VerifyToken: "vt-r"}

	m.SetTab(TabRegister)
	m.EnterName("Ann")
	m.EnterEmail("a@b.test")
	m.RequestCode(context.Background())

	require.Equal(t, TabOTP, m.Tab())
	require.Len(t, client.RegisterReqs, 1)
	require.Equal(t, "0", client.RegisterReqs[0].OTP)
	require.Equal(t, "Ann", client.RegisterReqs[0].Name)
}

func TestPasswordLogin_Finalizes(t *testing.T) {
	m, client, cart, s, sess := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{
		Token: "user-tok",
		User:  &models.User{ID: "u1", Name: "Ann", Email: "a@b.test"},
	}

	m.EnterEmail("a@b.test")
	m.EnterPassword("pw")
	m.PasswordLogin(context.Background())

	// session committed
	require.Equal(t, "u1", sess.CurrentUserID())

	// identity persisted
	ctx := context.Background()
	tok, err := s.Get(ctx, store.KeyUserToken)
	require.NoError(t, err)
	require.Equal(t, "user-tok", string(tok))
	u := store.LoadJSON[*models.User](ctx, s, store.KeyUser, nil)
	require.NotNil(t, u)
	require.Equal(t, "u1", u.ID)

	// cart merge delegated exactly once
	require.Equal(t, []string{"u1"}, cart.loginIDs)

	// machine returned to the login tab with a clean buffer
	require.Equal(t, TabLogin, m.Tab())
	require.Equal(t, Form{}, m.Form())
}

func TestPasswordLogin_FailureKeepsLoginTab(t *testing.T) {
	m, client, cart, _, sess := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{Message: "wrong password"}

	m.EnterEmail("a@b.test")
	m.EnterPassword("nope")
	m.PasswordLogin(context.Background())

	require.Equal(t, TabLogin, m.Tab())
	require.Equal(t, "wrong password", m.Message())
	require.Empty(t, cart.loginIDs)
	require.Equal(t, "", sess.CurrentUserID())
}

func enterCode(m *Machine, code string) {
	for i, ch := range code {
		m.EnterDigit(i, ch)
	}
}

func TestVerifyCode_ResetRoundTrip(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.ForgotResp = &api.AuthResponse{OTPSent: true, VerifyToken: "vt-reset"}

	m.SetTab(TabReset)
	m.EnterEmail("a@b.test")
	m.EnterPassword("new-password")
	m.RequestCode(context.Background())
	require.Equal(t, TabOTP, m.Tab())

	// wrong code: server rejects, state stays at otp, digits intact
	client.ForgotResp = &api.AuthResponse{Message: "invalid code"}
	enterCode(m, "111111")
	m.VerifyCode(context.Background())

	require.Equal(t, TabOTP, m.Tab())
	require.Equal(t, "invalid code", m.Message())
	require.Equal(t, "1", m.Digits()[0])

	// correct code: confirm discriminator, new password, back to login
	client.ForgotResp = &api.AuthResponse{Status: "ok", Message: "password updated"}
	enterCode(m, "222222")
	m.VerifyCode(context.Background())

	require.Equal(t, TabLogin, m.Tab())
	require.Equal(t, Form{}, m.Form())
	require.Equal(t, [OTPLength]string{}, m.Digits())

	last := client.ForgotReqs[len(client.ForgotReqs)-1]
	require.Equal(t, "222222", last.OTP)
	require.Equal(t, "1", last.Confirm)
	require.Equal(t, "vt-reset", last.VerifyToken)
	require.Equal(t, "new-password", last.Password)
}

func TestVerifyCode_LoginFlowCarriesVerifyDiscriminator(t *testing.T) {
	m, client, cart, _, _ := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{OTPSent: true, VerifyToken: "vt-l"}

	m.EnterEmail("a@b.test")
	m.RequestCode(context.Background())
	require.Equal(t, TabOTP, m.Tab())

	client.LoginResp = &api.AuthResponse{
		Token: "tok",
		User:  &models.User{ID: "u2", Email: "a@b.test"},
	}
	enterCode(m, "123456")
	m.VerifyCode(context.Background())

	last := client.LoginReqs[len(client.LoginReqs)-1]
	require.Equal(t, "1", last.Verify)
	require.Equal(t, "123456", last.OTP)
	require.Equal(t, "vt-l", last.VerifyToken)
	require.Equal(t, []string{"u2"}, cart.loginIDs)
}

func TestVerifyCode_IncompleteCodeIsUserCorrectable(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{OTPSent: true}
	m.RequestCode(context.Background())

	m.EnterDigit(0, '1')
	m.VerifyCode(context.Background())

	require.Equal(t, TabOTP, m.Tab())
	require.Equal(t, "enter the 6-digit code", m.Message())
	// no verification request went out
	require.Len(t, client.LoginReqs, 1)
}

func TestLogout(t *testing.T) {
	m, client, cart, s, sess := newTestMachine(t)
	client.LoginResp = &api.AuthResponse{Token: "tok", User: &models.User{ID: "u1"}}
	m.PasswordLogin(context.Background())
	require.Equal(t, "u1", sess.CurrentUserID())

	m.Logout(context.Background())

	require.Equal(t, "", sess.CurrentUserID())
	require.Equal(t, 1, cart.logoutHits)
	tok, err := s.Get(context.Background(), store.KeyUserToken)
	require.NoError(t, err)
	require.Nil(t, tok)
}

func TestFinalize_ClosesAuthSurface(t *testing.T) {
	m, client, _, _, _ := newTestMachine(t)
	events := m.Subscribe()
	client.LoginResp = &api.AuthResponse{Token: "tok", User: &models.User{ID: "u1"}}

	m.PasswordLogin(context.Background())

	var sawClosed bool
	for {
		select {
		case e := <-events:
			if e == EventClosed {
				sawClosed = true
			}
			continue
		default:
		}
		break
	}
	require.True(t, sawClosed)
}
