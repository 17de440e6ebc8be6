package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carnet/internal/config"
	"carnet/internal/dbx"
	"carnet/internal/logging"
	"carnet/internal/mail"
	"carnet/internal/models"
	"carnet/internal/repositories"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*models.User{}} }

func (m *memUsers) add(u models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = &u
	return &u
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	if m.err != nil {
		return m.err
	}
	created := m.add(*u)
	u.ID = created.ID
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID int64, hash string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = at
	return nil
}

type memNotes struct {
	mu     sync.Mutex
	byID   map[int64]*models.Note
	nextID int64
}

func newMemNotes() *memNotes { return &memNotes{byID: map[int64]*models.Note{}} }

func (m *memNotes) Create(_ context.Context, n *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt, n.UpdatedAt = testNow, testNow
	cp := *n
	m.byID[n.ID] = &cp
	return nil
}

func (m *memNotes) owned(userID int64) []models.Note {
	var out []models.Note
	for _, n := range m.byID {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memNotes) ListForUser(_ context.Context, userID int64, limit, offset int) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.owned(userID)
	out := []models.Note{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *memNotes) CountForUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.owned(userID)), nil
}

func (m *memNotes) FindForUser(_ context.Context, userID, noteID int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.byID[noteID]
	if !ok || n.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotes) UpdateForUser(_ context.Context, note *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.byID[note.ID]
	if !ok || n.UserID != note.UserID {
		return repositories.ErrNotFound
	}
	n.Title, n.Content, n.UpdatedAt = note.Title, note.Content, testNow
	note.CreatedAt, note.UpdatedAt = n.CreatedAt, n.UpdatedAt
	return nil
}

func (m *memNotes) DeleteForUser(_ context.Context, userID, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.byID[noteID]
	if !ok || n.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(m.byID, noteID)
	return nil
}

type memVerifications struct {
	mu     sync.Mutex
	rows   []*models.EmailVerificationToken
	writes int
}

func (m *memVerifications) Create(_ context.Context, userID int64, token string) (*models.EmailVerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := &models.EmailVerificationToken{ID: int64(len(m.rows) + 1), UserID: userID, VerificationToken: token}
	m.rows = append(m.rows, v)
	m.writes++
	cp := *v
	return &cp, nil
}

func (m *memVerifications) find(match func(*models.EmailVerificationToken) bool) (*models.EmailVerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.rows {
		if match(v) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memVerifications) GetByToken(_ context.Context, token string) (*models.EmailVerificationToken, error) {
	return m.find(func(v *models.EmailVerificationToken) bool { return v.VerificationToken == token })
}

func (m *memVerifications) GetByUserID(_ context.Context, userID int64) (*models.EmailVerificationToken, error) {
	return m.find(func(v *models.EmailVerificationToken) bool { return v.UserID == userID })
}

func (m *memVerifications) MarkVerified(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.rows {
		if v.ID == id {
			v.IsVerified = true
			v.VerifiedAt = &at
			m.writes++
			return nil
		}
	}
	return repositories.ErrNotFound
}

type memResets struct {
	mu     sync.Mutex
	byUser map[int64]*models.PasswordResetToken
}

func newMemResets() *memResets { return &memResets{byUser: map[int64]*models.PasswordResetToken{}} }

func (m *memResets) Upsert(_ context.Context, userID int64, token string, expiresAt time.Time) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.byUser[userID]
	if !ok {
		pr = &models.PasswordResetToken{ID: int64(len(m.byUser) + 1), UserID: userID}
		m.byUser[userID] = pr
	}
	pr.ResetToken, pr.ExpiresAt = token, expiresAt
	cp := *pr
	return &cp, nil
}

func (m *memResets) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pr := range m.byUser {
		if pr.ResetToken == token {
			cp := *pr
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type memAccessTokens struct {
	mu   sync.Mutex
	rows map[string]*models.AccessToken
}

func newMemAccessTokens() *memAccessTokens {
	return &memAccessTokens{rows: map[string]*models.AccessToken{}}
}

func (m *memAccessTokens) Create(_ context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[tokenID] = &models.AccessToken{ID: int64(len(m.rows) + 1), UserID: userID, TokenID: tokenID, ExpiresAt: expiresAt}
	return nil
}

func (m *memAccessTokens) GetByTokenID(_ context.Context, tokenID string) (*models.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[tokenID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memAccessTokens) Revoke(_ context.Context, tokenID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[tokenID]
	if !ok || t.RevokedAt != nil {
		return repositories.ErrNotFound
	}
	t.RevokedAt = &at
	return nil
}

type fakeManager struct {
	users  *memUsers
	notes  *memNotes
	verifs *memVerifications
	resets *memResets
	access *memAccessTokens
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:  newMemUsers(),
		notes:  newMemNotes(),
		verifs: &memVerifications{},
		resets: newMemResets(),
		access: newMemAccessTokens(),
	}
}

func (m *fakeManager) Users(dbx.DBTX) repositories.UserRepository { return m.users }
func (m *fakeManager) Notes(dbx.DBTX) repositories.NoteRepository { return m.notes }
func (m *fakeManager) EmailVerifications(dbx.DBTX) repositories.EmailVerificationRepository {
	return m.verifs
}
func (m *fakeManager) PasswordResets(dbx.DBTX) repositories.PasswordResetRepository {
	return m.resets
}
func (m *fakeManager) AccessTokens(dbx.DBTX) repositories.AccessTokenRepository { return m.access }

type recordingQueue struct {
	mu   sync.Mutex
	msgs []mail.Message
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, msg mail.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *recordingQueue) sent() []mail.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mail.Message(nil), q.msgs...)
}

func newTestAuth(repos repositories.Manager) *authService {
	a := NewAuthService(nil, repos, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: 24 * time.Hour}, logging.Discard()).(*authService)
	a.cost = bcrypt.MinCost
	a.now = fixedNow
	return a
}
