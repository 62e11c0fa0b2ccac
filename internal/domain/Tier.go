package domain

// Tier representa o plano de assinatura do usuário.
// O enum é fechado de propósito: adicionar um tier novo obriga uma decisão
// explícita sobre qual pool de credenciais ele usa.
type Tier string

const (
	TierFree       Tier = "free"
	TierQuickstart Tier = "quickstart"
	TierPro        Tier = "pro"
	TierElite      Tier = "elite"
	TierAgency     Tier = "agency"
)

// ParseTier normaliza um rótulo de tier. Tiers desconhecidos caem no free,
// que sempre usa o pool compartilhado e o menor teto de custo.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierFree, TierQuickstart, TierPro, TierElite, TierAgency:
		return Tier(s)
	}
	return TierFree
}

// IsSelfCustody indica se o tier exige credencial OAuth própria do usuário.
// Esses tiers nunca podem consumir a credencial compartilhada do sistema.
func (t Tier) IsSelfCustody() bool {
	switch t {
	case TierPro, TierElite, TierAgency:
		return true
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}
