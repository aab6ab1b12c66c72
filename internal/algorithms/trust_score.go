package algorithms

import (
	"errors"
	"strings"
	"unicode"

	"achatavis_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidEmail = errors.New("invalid email address")

// Ограничения компонентов балла
const (
	maxEmailScore     = 30
	maxMapsScore      = 50
	phoneBonus        = 15
	maxPenalties      = 30
	maxGuideLevelPart = 25
)

var emailCheck = validator.New()

var googleDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
}

// MapsProfile - результат скрапинга профиля Google Maps
type MapsProfile struct {
	LocalGuideLevel int
	ReviewCount     int
	AvatarURL       string
}

// TrustInput - сырые сигналы аккаунта. Profile == nil значит "неизвестно".
type TrustInput struct {
	Email          string
	MapsProfileURL string
	Profile        *MapsProfile
	PhoneVerified  bool
}

type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type TrustBreakdown struct {
	EmailScore        int `json:"email_score"`
	MapsProfileScore  int `json:"maps_profile_score"`
	VerificationBonus int `json:"verification_bonus"`
	Penalties         int `json:"penalties"`
}

type TrustResult struct {
	FinalScore         int               `json:"final_score"`
	TrustLevel         models.TrustLevel `json:"trust_level"`
	Badge              Badge             `json:"badge"`
	Breakdown          TrustBreakdown    `json:"breakdown"`
	Restrictions       []string          `json:"restrictions"`
	MaxReviewsPerMonth int               `json:"max_reviews_per_month"`
	Recommendations    []string          `json:"recommendations"`
}

// CalculateTrustScore считает балл доверия (0-100) и уровень.
// Невалидный email - единственная ошибка, отсутствие профиля дает 0 по картам.
func CalculateTrustScore(in TrustInput, p Policy) (*TrustResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	profileURL := strings.TrimSpace(in.MapsProfileURL)

	breakdown := TrustBreakdown{
		EmailScore:       emailScore(local, domain),
		MapsProfileScore: mapsScore(profileURL, in.Profile),
		Penalties:        penalties(in.Profile),
	}
	if in.PhoneVerified {
		breakdown.VerificationBonus = phoneBonus
	}

	score := clamp(breakdown.EmailScore+breakdown.MapsProfileScore+breakdown.VerificationBonus-breakdown.Penalties, 0, 100)
	level := LevelForScore(score, p)

	return &TrustResult{
		FinalScore:         score,
		TrustLevel:         level,
		Badge:              BadgeFor(level),
		Breakdown:          breakdown,
		Restrictions:       RestrictionsFor(level),
		MaxReviewsPerMonth: p.MaxReviewsPerMonth.For(level),
		Recommendations:    trustRecommendations(domain, profileURL, in),
	}, nil
}

// IsValidEmail - синтаксическая проверка адреса
func IsValidEmail(email string) bool {
	if email == "" || strings.Count(email, "@") != 1 {
		return false
	}
	return emailCheck.Var(email, "required,email") == nil
}

func emailScore(local, domain string) int {
	score := 10
	if googleDomains[domain] {
		score += 10
	}
	if len(local) >= 6 && len(local) <= 30 {
		score += 5
	}
	if longestDigitRun(local) < 5 {
		score += 5
	}
	return min(score, maxEmailScore)
}

func mapsScore(profileURL string, profile *MapsProfile) int {
	score := 0
	if profileURL != "" {
		score += 5
	}
	if profile == nil {
		return score
	}

	score += min(profile.LocalGuideLevel*4, maxGuideLevelPart)

	switch {
	case profile.ReviewCount >= 50:
		score += 20
	case profile.ReviewCount >= 20:
		score += 15
	case profile.ReviewCount >= 5:
		score += 10
	case profile.ReviewCount >= 1:
		score += 5
	}
	return min(score, maxMapsScore)
}

// penalties - аномалии профиля: отзывы без уровня, неправдоподобная скорость, пустой аватар
func penalties(profile *MapsProfile) int {
	if profile == nil {
		return 0
	}
	total := 0
	if profile.ReviewCount > 0 && profile.LocalGuideLevel == 0 {
		total += 10
	}
	if isVelocityAnomaly(profile) {
		total += 15
	}
	if profile.AvatarURL == "" {
		total += 5
	}
	return min(total, maxPenalties)
}

func isVelocityAnomaly(profile *MapsProfile) bool {
	if profile.LocalGuideLevel <= 2 && profile.ReviewCount > 100 {
		return true
	}
	return profile.LocalGuideLevel > 0 && profile.ReviewCount > 200*profile.LocalGuideLevel
}

func trustRecommendations(domain, profileURL string, in TrustInput) []string {
	recs := []string{}
	if !googleDomains[domain] {
		recs = append(recs, "Use a Gmail address for publishing reviews")
	}
	if !in.PhoneVerified {
		recs = append(recs, "Verify a phone number on this Google account")
	}
	if profileURL == "" {
		recs = append(recs, "Add your Google Maps contributor profile URL")
	} else if in.Profile == nil {
		recs = append(recs, "Your Maps profile could not be read, make sure it is public")
	}
	if in.Profile != nil {
		if in.Profile.LocalGuideLevel < 3 {
			recs = append(recs, "Reach Local Guide level 3 to unlock more sectors")
		}
		if in.Profile.ReviewCount < 20 {
			recs = append(recs, "Publish more genuine personal reviews on Google Maps")
		}
		if in.Profile.AvatarURL == "" {
			recs = append(recs, "Set a profile photo on your Google account")
		}
	}
	return recs
}

// LevelForScore - монотонное отображение балла в уровень по порогам политики
func LevelForScore(score int, p Policy) models.TrustLevel {
	t := p.TrustThresholds
	switch {
	case score >= t.Platinum:
		return models.TrustLevelPlatinum
	case score >= t.Gold:
		return models.TrustLevelGold
	case score >= t.Silver:
		return models.TrustLevelSilver
	case score >= t.Bronze:
		return models.TrustLevelBronze
	default:
		return models.TrustLevelBlocked
	}
}

// DefaultScoreFor - канонический балл уровня (ручная установка уровня без балла)
func DefaultScoreFor(level models.TrustLevel, p Policy) int {
	return clamp(p.DefaultScores.For(level), 0, 100)
}

func BadgeFor(level models.TrustLevel) Badge {
	switch level {
	case models.TrustLevelPlatinum:
		return Badge{Label: "Platinum", Color: "#E5E4E2"}
	case models.TrustLevelGold:
		return Badge{Label: "Gold", Color: "#FFD700"}
	case models.TrustLevelSilver:
		return Badge{Label: "Silver", Color: "#C0C0C0"}
	case models.TrustLevelBronze:
		return Badge{Label: "Bronze", Color: "#CD7F32"}
	default:
		return Badge{Label: "Blocked", Color: "#9E9E9E"}
	}
}

func RestrictionsFor(level models.TrustLevel) []string {
	switch level {
	case models.TrustLevelBlocked:
		return []string{"no_missions"}
	case models.TrustLevelBronze:
		return []string{"easy_sectors_only", "manual_validation"}
	case models.TrustLevelSilver:
		return []string{"no_hard_sectors"}
	default:
		return []string{}
	}
}

// AccountLevelFor - отображаемый уровень аккаунта по уровню Local Guide
func AccountLevelFor(localGuideLevel int) string {
	switch {
	case localGuideLevel >= 8:
		return "elite"
	case localGuideLevel >= 6:
		return "expert"
	case localGuideLevel >= 3:
		return "confirmed"
	default:
		return "novice"
	}
}

func longestDigitRun(s string) int {
	longest, current := 0, 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			current++
			longest = max(longest, current)
			continue
		}
		current = 0
	}
	return longest
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
