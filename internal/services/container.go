package services

// ServiceContainer содержит все сервисы приложения
type ServiceContainer struct {
	CatalogService      CatalogService
	GmailAccountService GmailAccountService
	ComplianceService   ComplianceService
	MissionService      MissionService
	OrderService        OrderService
	ProposalService     ProposalService
	SubmissionService   SubmissionService
	PaymentService      PaymentService
}
