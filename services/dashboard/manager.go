package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/notification"
	"hoofix/services/realtime"
	"hoofix/services/session"
	"hoofix/services/viewmodel"
	"hoofix/utils"

	"go.uber.org/zap"
)

// ManagerConfig wires the collaborators a session needs.
type ManagerConfig struct {
	Realtime        realtime.Config
	Controller      Options
	PushSender      notification.PushSender
	PushDeviceToken string
	NotificationTTL time.Duration
}

// Manager owns the single logged-in session of this client: its controller,
// its realtime connection and the credential slot they share.
type Manager struct {
	cfg    ManagerConfig
	creds  session.CredentialStore
	client *api.Client
	latch  *RedirectLatch
	logger *zap.Logger
	root   context.Context

	// opening serialises session changes so concurrent restores share one
	// session.
	opening sync.Mutex

	mu       sync.Mutex
	ctrl     *Controller
	rt       *realtime.Client
	cancelRT context.CancelFunc
}

func NewManager(root context.Context, cfg ManagerConfig, client *api.Client, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = notification.DefaultTTL
	}
	return &Manager{
		cfg:    cfg,
		creds:  client.Credentials(),
		client: client,
		latch:  &RedirectLatch{},
		logger: logger,
		root:   root,
	}
}

func (m *Manager) Latch() *RedirectLatch {
	return m.latch
}

func (m *Manager) LoginPath() string {
	return m.cfg.Controller.withDefaults().LoginPath
}

// Login stores a freshly issued credential and opens a session for it.
func (m *Manager) Login(ctx context.Context, token string) (*Controller, error) {
	identity, err := utils.DecodeIdentity(token)
	if err != nil {
		return nil, &api.Error{Kind: api.Unauthorized, Op: "login", Message: "invalid credential", Err: err}
	}
	m.opening.Lock()
	defer m.opening.Unlock()
	if err := m.creds.Set(ctx, token); err != nil {
		return nil, err
	}
	return m.open(ctx, identity)
}

// Current returns the open session, restoring it from the credential slot if
// needed. Without a readable credential the latch is pointed at the login
// page and utils.ErrNoIdentity is returned.
func (m *Manager) Current(ctx context.Context) (*Controller, error) {
	if ctrl := m.live(); ctrl != nil {
		return ctrl, nil
	}

	m.opening.Lock()
	defer m.opening.Unlock()
	if ctrl := m.live(); ctrl != nil {
		return ctrl, nil
	}

	identity, _, err := session.Current(ctx, m.creds)
	if err != nil {
		if errors.Is(err, utils.ErrNoIdentity) {
			m.latch.Redirect(m.LoginPath())
		}
		return nil, err
	}
	return m.open(ctx, identity)
}

// Logout ends the open session, if any, and stops its realtime connection.
func (m *Manager) Logout(ctx context.Context) {
	m.opening.Lock()
	defer m.opening.Unlock()
	m.mu.Lock()
	ctrl := m.ctrl
	m.mu.Unlock()
	if ctrl != nil {
		ctrl.Logout(ctx)
	} else if err := m.creds.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear credential", zap.Error(err))
	}
	m.stop()
}

// RealtimeConnected reports whether the open session's channel is up.
func (m *Manager) RealtimeConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rt != nil && m.rt.Connected()
}

// Close stops the realtime connection without touching the credential.
func (m *Manager) Close() {
	m.stop()
}

func (m *Manager) open(ctx context.Context, identity models.Identity) (*Controller, error) {
	notifier, err := notification.NewDefaultNotificationService(
		notification.NewCenter(m.cfg.NotificationTTL),
		m.cfg.PushSender,
		m.cfg.PushDeviceToken,
		identity.Role,
		m.logger,
	)
	if err != nil {
		return nil, err
	}

	sessionCtx, cancel := context.WithCancel(m.root)
	ctrl := NewController(sessionCtx, identity, m.client, viewmodel.NewStore(), notifier, m.latch, m.cfg.Controller, m.logger)

	rtCfg := m.cfg.Realtime
	rtCfg.Room = realtime.RoomUser
	if identity.IsProvider() {
		rtCfg.Room = realtime.RoomProvider
	}
	rt := realtime.NewClient(rtCfg, m.creds, realtime.NewRouter(ctrl, m.logger), ctrl, m.logger)

	m.mu.Lock()
	if m.cancelRT != nil {
		m.cancelRT()
	}
	m.ctrl, m.rt, m.cancelRT = ctrl, rt, cancel
	m.mu.Unlock()

	if rtCfg.URL != "" {
		go func() {
			if err := rt.Listen(sessionCtx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Info("realtime listener exited", zap.Error(err))
			}
		}()
	}
	go func() {
		select {
		case <-ctrl.Done():
			m.release(ctrl)
		case <-sessionCtx.Done():
		}
	}()

	m.logger.Info("session opened",
		zap.String("identity", identity.ID),
		zap.String("page", string(ctrl.Page())),
	)
	if err := ctrl.Load(ctx); err != nil && ended(ctrl) {
		return nil, err
	}
	return ctrl, nil
}

// live returns the open session unless it has ended.
func (m *Manager) live() *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil || ended(m.ctrl) {
		return nil
	}
	return m.ctrl
}

// release forgets ctrl once its session has ended, unless a newer session
// has already replaced it.
func (m *Manager) release(ctrl *Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl != ctrl {
		return
	}
	if m.cancelRT != nil {
		m.cancelRT()
	}
	m.ctrl, m.rt, m.cancelRT = nil, nil, nil
}

func (m *Manager) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelRT != nil {
		m.cancelRT()
	}
	m.ctrl, m.rt, m.cancelRT = nil, nil, nil
}

func ended(ctrl *Controller) bool {
	select {
	case <-ctrl.Done():
		return true
	default:
		return false
	}
}
