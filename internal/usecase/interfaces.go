package usecase

import "context"

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	SignInWithEmailPassword(email, password string) (string, error)
	SignInWithEmailPasswordWithRefresh(email, password string) (string, string, error)
	RefreshIdToken(refreshToken string) (string, string, error)
	TestConnection(ctx context.Context) error
}

// Notifier pushes realtime events to connected users. Implemented by the
// websocket manager; a no-op in tests.
type Notifier interface {
	NotifyUser(userID, eventType string, payload interface{})
}
