// Package auth is the session provider: it signs authors in and out with a
// cookie session, resolves the current identity and notifies subscribers
// about sign-in/sign-out changes.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	SessionName   = "outfitcult_session"
	sessionUserID = "user_id"
	identityKey   = "__identity"
)

// Identity is the signed-in author.
type Identity struct {
	ID          string
	Username    string
	DisplayName string
}

// EventType distinguishes session change notifications.
type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// Event is delivered to subscribers after a session change.
type Event struct {
	Type     EventType
	Identity *Identity
}

// Provider resolves identities from the session cookie.
type Provider struct {
	db  *gorm.DB
	log *slog.Logger

	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(Event)
	order       []int
}

// NewProvider creates a session provider backed by the users table.
func NewProvider(gdb *gorm.DB, log *slog.Logger) *Provider {
	return &Provider{
		db:          gdb,
		log:         log,
		subscribers: make(map[int]func(Event)),
	}
}

// Middleware installs the cookie session store.
func Middleware(secret string, secure bool) gin.HandlerFunc {
	store := newStore(secret, secure)
	return sessions.Sessions(SessionName, store)
}

// Subscribe registers fn for session changes. Notifications are delivered
// synchronously in registration order. The returned func unsubscribes.
func (p *Provider) Subscribe(fn func(Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.order = append(p.order, id)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
		for i, v := range p.order {
			if v == id {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
	}
}

func (p *Provider) publish(event Event) {
	p.mu.Lock()
	handlers := make([]func(Event), 0, len(p.order))
	for _, id := range p.order {
		handlers = append(handlers, p.subscribers[id])
	}
	p.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}

// SignIn checks the credentials and stores the user in the session.
func (p *Provider) SignIn(c *gin.Context, username, password string) (*Identity, error) {
	var user db.User
	if err := p.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	if err := session.Save(); err != nil {
		return nil, err
	}

	identity := p.identityFor(user)
	c.Set(identityKey, identity)
	p.publish(Event{Type: SignedIn, Identity: identity})
	return identity, nil
}

// SignOut clears the session.
func (p *Provider) SignOut(c *gin.Context) error {
	identity, _ := p.CurrentUser(c)

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		return err
	}

	c.Set(identityKey, (*Identity)(nil))
	p.publish(Event{Type: SignedOut, Identity: identity})
	return nil
}

// CurrentUser returns the signed-in author, or false when there is none.
// A session that points at a deleted user counts as signed out.
func (p *Provider) CurrentUser(c *gin.Context) (*Identity, bool) {
	if cached, exists := c.Get(identityKey); exists {
		identity, _ := cached.(*Identity)
		return identity, identity != nil
	}

	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserID).(string)
	if !ok || userID == "" {
		c.Set(identityKey, (*Identity)(nil))
		return nil, false
	}

	var user db.User
	if err := p.db.First(&user, "id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			p.log.Error("session lookup failed", "error", err)
		}
		c.Set(identityKey, (*Identity)(nil))
		return nil, false
	}

	identity := p.identityFor(user)
	c.Set(identityKey, identity)
	return identity, true
}

func (p *Provider) identityFor(user db.User) *Identity {
	identity := &Identity{ID: user.ID, Username: user.Username, DisplayName: user.Username}

	var profile db.Profile
	if err := p.db.First(&profile, "user_id = ?", user.ID).Error; err == nil && profile.DisplayName != "" {
		identity.DisplayName = profile.DisplayName
	}
	return identity
}

// LoadUser resolves the identity once per request so templates can show
// the signed-in state.
func (p *Provider) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.CurrentUser(c)
		c.Next()
	}
}

// RequireUser redirects anonymous visitors to loginPath before the handler runs.
func (p *Provider) RequireUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := p.CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MustIdentity returns the identity installed by RequireUser.
func MustIdentity(c *gin.Context) *Identity {
	cached, _ := c.Get(identityKey)
	identity, _ := cached.(*Identity)
	if identity == nil {
		panic("auth: MustIdentity called without RequireUser")
	}
	return identity
}
