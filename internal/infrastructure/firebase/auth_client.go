package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(ctx context.Context, app *firebase.App) (*AuthClient, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return &AuthClient{
		client: client,
	}, nil
}

// VerifyToken validates a Firebase ID token and returns the user's UID.
func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
