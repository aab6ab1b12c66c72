package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	CatalogHandler      *CatalogHandler
	GmailAccountHandler *GmailAccountHandler
	OrderHandler        *OrderHandler
	ProposalHandler     *ProposalHandler
	MissionHandler      *MissionHandler
	SubmissionHandler   *SubmissionHandler
	ComplianceHandler   *ComplianceHandler
	PaymentHandler      *PaymentHandler
}
