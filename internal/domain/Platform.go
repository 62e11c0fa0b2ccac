package domain

import "fmt"

// Platform identifica a plataforma de anúncios suportada
type Platform string

const (
	PlatformMeta     Platform = "meta"
	PlatformGoogle   Platform = "google"
	PlatformTikTok   Platform = "tiktok"
	PlatformLinkedIn Platform = "linkedin"
	PlatformX        Platform = "x"
)

// AllPlatforms lista todas as plataformas suportadas
var AllPlatforms = []Platform{
	PlatformMeta,
	PlatformGoogle,
	PlatformTikTok,
	PlatformLinkedIn,
	PlatformX,
}

// ParsePlatform converte uma string em Platform, validando contra o enum fechado
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformMeta, PlatformGoogle, PlatformTikTok, PlatformLinkedIn, PlatformX:
		return Platform(s), nil
	}
	return "", fmt.Errorf("plataforma desconhecida: %q", s)
}

func (p Platform) String() string {
	return string(p)
}
