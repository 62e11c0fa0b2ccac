package domain

import "time"

// OwnerType indica se a credencial pertence a um usuário ou ao pool do sistema
type OwnerType string

const (
	OwnerTypeUser   OwnerType = "user"
	OwnerTypeSystem OwnerType = "system"
)

// CredentialStatus representa o status da conexão da credencial
type CredentialStatus string

const (
	CredentialStatusConnected CredentialStatus = "connected"
	CredentialStatusRevoked   CredentialStatus = "revoked"
	CredentialStatusExpired   CredentialStatus = "expired"
)

// AuthScheme diferencia credenciais OAuth2 (bearer) de OAuth1 (quatro partes).
// O X ainda usa OAuth1 para a API de anúncios; as demais plataformas usam OAuth2.
type AuthScheme string

const (
	AuthSchemeOAuth2 AuthScheme = "oauth2"
	AuthSchemeOAuth1 AuthScheme = "oauth1"
)

// Credential é o registro persistido. Os campos de segredo ficam sempre
// cifrados em repouso; a forma decifrada só existe em ResolvedCredential.
type Credential struct {
	ID                string           `json:"id"`
	OwnerType         OwnerType        `json:"owner_type"`
	OwnerID           *int             `json:"owner_id"`
	Platform          Platform         `json:"platform"`
	AuthScheme        AuthScheme       `json:"auth_scheme"`
	AccessToken       string           `json:"-"`
	RefreshToken      *string          `json:"-"`
	ConsumerKey       *string          `json:"-"`
	ConsumerSecret    *string          `json:"-"`
	PlatformAccountID *string          `json:"platform_account_id"`
	AccountName       *string          `json:"account_name"`
	Status            CredentialStatus `json:"status"`
	ExpiresAt         *time.Time       `json:"expires_at"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ResolvedCredential é a credencial decifrada entregue aos publicadores.
// Nunca é persistida.
type ResolvedCredential struct {
	Platform          Platform
	AuthScheme        AuthScheme
	AccessToken       string
	RefreshToken      *string
	ConsumerKey       *string
	ConsumerSecret    *string
	PlatformAccountID *string
	AccountName       *string
}

// ConnectCredentialRequest carrega os dados recebidos no callback de OAuth
type ConnectCredentialRequest struct {
	Platform          string  `json:"platform"`
	AccessToken       string  `json:"access_token"`
	RefreshToken      *string `json:"refresh_token"`
	ConsumerKey       *string `json:"consumer_key"`
	ConsumerSecret    *string `json:"consumer_secret"`
	PlatformAccountID *string `json:"platform_account_id"`
	AccountName       *string `json:"account_name"`
	ExpiresInSeconds  *int    `json:"expires_in"`
}

// CredentialResponse é a visão pública de uma credencial (sem segredos)
type CredentialResponse struct {
	Platform          Platform         `json:"platform"`
	Status            CredentialStatus `json:"status"`
	PlatformAccountID *string          `json:"platform_account_id"`
	AccountName       *string          `json:"account_name"`
	ExpiresAt         *time.Time       `json:"expires_at"`
}
