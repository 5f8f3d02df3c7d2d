package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"kicklive/internal/interfaces"
)

// fakeAutomator scripts the browser-automation collaborator.
type fakeAutomator struct {
	mu         sync.Mutex
	loginCalls int
	loginErr   error
	bearer     string
	xsrf       string

	refreshCalls int
	refreshXsrf  []string
	refreshResp  *http.Response
	refreshErr   error
}

func (a *fakeAutomator) NavigateAndLogin(_ context.Context, _, _ string) (interfaces.LoginResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loginCalls++
	if a.loginErr != nil {
		return interfaces.LoginResult{}, a.loginErr
	}
	return interfaces.LoginResult{BearerToken: a.bearer, XsrfToken: a.xsrf}, nil
}

func (a *fakeAutomator) RefreshXsrfOnPage(_ context.Context, _ interfaces.Page) (string, *http.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refreshErr != nil {
		return "", a.refreshResp, a.refreshErr
	}
	xsrf := a.refreshXsrf[a.refreshCalls%len(a.refreshXsrf)]
	a.refreshCalls++
	return xsrf, a.refreshResp, nil
}

type fakePage struct{}

func (fakePage) URL() string { return "https://kick.com/" }

func TestAuthenticateStoresTokens(t *testing.T) {
	auto := &fakeAutomator{bearer: "b1", xsrf: "x1"}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())

	if err := m.Authenticate(context.Background(), "user", "pass"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("not authenticated after successful login")
	}

	creds, ok := m.Store().Snapshot()
	if !ok || creds.Bearer != "b1" || creds.Xsrf != "x1" {
		t.Errorf("stored credentials = %+v (valid=%v)", creds, ok)
	}
}

func TestAuthenticateAutomationFailure(t *testing.T) {
	auto := &fakeAutomator{loginErr: errors.New("navigation timeout")}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())

	err := m.Authenticate(context.Background(), "user", "pass")

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthenticationError", err)
	}
	if m.IsAuthenticated() {
		t.Errorf("store authenticated after failed login")
	}
}

func TestAuthenticateEmptyTokens(t *testing.T) {
	auto := &fakeAutomator{bearer: "", xsrf: "x1"}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())

	err := m.Authenticate(context.Background(), "user", "pass")

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthenticationError", err)
	}
}

func TestConcurrentAuthenticateRunsOnce(t *testing.T) {
	auto := &fakeAutomator{bearer: "b1", xsrf: "x1"}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Authenticate(context.Background(), "user", "pass")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if auto.loginCalls != 1 {
		t.Errorf("login ran %d times, want 1 (waiters reuse the outcome)", auto.loginCalls)
	}
}

func TestRefreshXsrfKeepsBearer(t *testing.T) {
	auto := &fakeAutomator{bearer: "b1", xsrf: "x1", refreshXsrf: []string{"x2", "x3"}}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())
	if err := m.Authenticate(context.Background(), "user", "pass"); err != nil {
		t.Fatal(err)
	}

	if err := m.RefreshXsrfToken(context.Background(), fakePage{}); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	creds, _ := m.Store().Snapshot()
	if creds.Xsrf != "x2" || creds.Bearer != "b1" {
		t.Errorf("after first refresh: %+v", creds)
	}

	if err := m.RefreshXsrfToken(context.Background(), fakePage{}); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	creds, _ = m.Store().Snapshot()
	if creds.Xsrf != "x3" || creds.Bearer != "b1" {
		t.Errorf("after second refresh: %+v", creds)
	}
}

func TestRefreshRejectionCarriesResponse(t *testing.T) {
	rejection := &http.Response{StatusCode: http.StatusForbidden}
	auto := &fakeAutomator{bearer: "b1", xsrf: "x1", refreshResp: rejection, refreshErr: fmt.Errorf("server said no")}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())
	if err := m.Authenticate(context.Background(), "user", "pass"); err != nil {
		t.Fatal(err)
	}

	err := m.RefreshXsrfToken(context.Background(), fakePage{})

	var refreshErr *RefreshTokenError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("error = %v, want *RefreshTokenError", err)
	}
	if refreshErr.Response != rejection {
		t.Errorf("rejected response not carried through")
	}

	// The bearer token survives a failed refresh; callers decide whether
	// to fall back to a full re-login.
	creds, _ := m.Store().Snapshot()
	if creds.Bearer != "b1" || creds.Xsrf != "x1" {
		t.Errorf("credentials changed by rejected refresh: %+v", creds)
	}
}

func TestRefreshRequiresSession(t *testing.T) {
	auto := &fakeAutomator{refreshXsrf: []string{"x2"}}
	m := NewManager(NewCredentialStore(), auto, zerolog.Nop())

	if err := m.RefreshXsrfToken(context.Background(), fakePage{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
}
