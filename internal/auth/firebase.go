package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// TokenVerifier verifies a bearer token and returns the caller's claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*UserClaims, error)
}

// UserClaims is the identity attached to an authenticated request.
type UserClaims struct {
	UID         string
	Email       string
	DisplayName string
	Picture     string
	Verified    bool
}

// FirebaseConfig selects the Firebase project and credentials.
type FirebaseConfig struct {
	// ProjectID overrides the project of the ambient credentials.
	ProjectID string
	// CredentialsFile is a service account key; empty uses ADC.
	CredentialsFile string
}

// FirebaseAuth verifies Firebase ID tokens issued to the mobile app.
type FirebaseAuth struct {
	client *fbauth.Client
}

// NewFirebaseAuth creates a verifier for the configured project.
func NewFirebaseAuth(ctx context.Context, cfg FirebaseConfig) (*FirebaseAuth, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var appConf *firebase.Config
	if cfg.ProjectID != "" {
		appConf = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &FirebaseAuth{client: client}, nil
}

// VerifyToken checks the ID token signature and expiry.
func (f *FirebaseAuth) VerifyToken(ctx context.Context, idToken string) (*UserClaims, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return claimsFromToken(token), nil
}

// claimsFromToken copies the profile claims the API uses. Missing or
// mistyped claims are left empty.
func claimsFromToken(token *fbauth.Token) *UserClaims {
	str := func(key string) string {
		v, _ := token.Claims[key].(string)
		return v
	}
	verified, _ := token.Claims["email_verified"].(bool)
	return &UserClaims{
		UID:         token.UID,
		Email:       str("email"),
		DisplayName: str("name"),
		Picture:     str("picture"),
		Verified:    verified,
	}
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is required")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", fmt.Errorf("authorization header must be Bearer token")
	}
	return token, nil
}
