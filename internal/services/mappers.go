package services

import (
	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services/dto"
)

// ---------------- Response builders ----------------

func buildGmailAccountResponse(a *models.GmailAccount, p algorithms.Policy) *dto.GmailAccountResponse {
	return &dto.GmailAccountResponse{
		ID:                 a.ID,
		GuideID:            a.GuideID,
		Email:              a.Email,
		MapsProfileURL:     a.MapsProfileURL,
		AvatarURL:          a.AvatarURL,
		LocalGuideLevel:    a.LocalGuideLevel,
		TotalReviewsGoogle: a.TotalReviewsGoogle,
		PhoneVerified:      a.PhoneVerified,
		IsVerified:         a.IsVerified,
		TrustScoreValue:    a.TrustScoreValue,
		TrustLevel:         a.TrustLevel,
		Badge:              algorithms.BadgeFor(a.TrustLevel),
		AccountLevel:       a.AccountLevel,
		Restrictions:       algorithms.RestrictionsFor(a.TrustLevel),
		MaxReviewsPerMonth: p.MaxReviewsPerMonth.For(a.TrustLevel),
		IsActive:           a.IsActive,
		TrustOverride:      a.TrustOverride,
		ReviewsPosted:      a.ReviewsPosted,
		LastCheckedAt:      a.LastCheckedAt,
		LastUsedAt:         a.LastUsedAt,
		CreatedAt:          a.CreatedAt,
	}
}

func buildRuleResponse(r *models.AntiDetectionRule) *dto.RuleResponse {
	return &dto.RuleResponse{
		Key:          r.Key,
		Name:         r.Name,
		Category:     r.Category,
		Severity:     r.Severity,
		Description:  r.Description,
		DoExamples:   r.GetDoExamples(),
		DontExamples: r.GetDontExamples(),
		Tips:         r.GetTips(),
	}
}

func buildSectorResponse(s *models.Sector, p algorithms.Policy) *dto.SectorResponse {
	if s == nil {
		return nil
	}
	return &dto.SectorResponse{
		ID:                    s.ID,
		Slug:                  s.Slug,
		Name:                  s.Name,
		Difficulty:            s.Difficulty,
		AverageValidationRate: s.AverageValidationRate,
		RequiredGmailLevel:    s.RequiredGmailLevel,
		RewardPerReview:       rewardFor(s, p),
		MinLocalGuideLevel:    p.MinGuideLevel.For(s.Difficulty),
		IsActive:              s.IsActive,
	}
}

func buildOrderResponse(o *models.ReviewOrder, proposalCount int64, p algorithms.Policy) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:               o.ID,
		ArtisanID:        o.ArtisanID,
		CompanyName:      o.CompanyName,
		EstablishmentURL: o.EstablishmentURL,
		City:             o.City,
		SectorID:         o.SectorID,
		Sector:           buildSectorResponse(o.Sector, p),
		Quantity:         o.Quantity,
		Tone:             o.Tone,
		Pace:             o.Pace,
		Language:         o.Language,
		Notes:            o.Notes,
		Status:           o.Status,
		ReviewsReceived:  o.ReviewsReceived,
		ProposalCount:    proposalCount,
		PaymentID:        o.PaymentID,
		SubmittedAt:      o.SubmittedAt,
		CompletedAt:      o.CompletedAt,
		CancelledAt:      o.CancelledAt,
		CreatedAt:        o.CreatedAt,
	}
}

func buildProposalResponse(p *models.ReviewProposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:           p.ID,
		OrderID:      p.OrderID,
		AuthorName:   p.AuthorName,
		Rating:       p.Rating,
		Content:      p.Content,
		Generated:    p.Generated,
		Published:    p.IsPublished(),
		SubmissionID: p.SubmissionID,
		CreatedAt:    p.CreatedAt,
	}
}

func buildSubmissionResponse(s *models.ReviewSubmission) *dto.SubmissionResponse {
	return &dto.SubmissionResponse{
		ID:              s.ID,
		GuideID:         s.GuideID,
		OrderID:         s.OrderID,
		ProposalID:      s.ProposalID,
		GmailAccountID:  s.GmailAccountID,
		ReviewURL:       s.ReviewURL,
		Status:          s.Status,
		RejectionReason: s.RejectionReason,
		Earnings:        s.Earnings,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func buildPaymentSessionResponse(s *models.PaymentSession) *dto.PaymentSessionResponse {
	return &dto.PaymentSessionResponse{
		ID:          s.ID,
		InvID:       s.InvID,
		PlanID:      s.PlanID,
		Reviews:     s.Reviews,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Status:      s.Status,
		CheckoutURL: s.CheckoutURL,
		PaidAt:      s.PaidAt,
		PackID:      s.PackID,
		CreatedAt:   s.CreatedAt,
	}
}

func buildPackResponse(p *models.PaymentPack) *dto.PackResponse {
	return &dto.PackResponse{
		ID:               p.ID,
		PlanID:           p.PlanID,
		ReviewsTotal:     p.ReviewsTotal,
		ReviewsRemaining: p.ReviewsRemaining,
		CreatedAt:        p.CreatedAt,
	}
}

// rewardFor - ставка сектора или ставка по умолчанию
func rewardFor(s *models.Sector, p algorithms.Policy) float64 {
	if s != nil && s.RewardPerReview > 0 {
		return s.RewardPerReview
	}
	return p.DefaultRewardPerReview
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
