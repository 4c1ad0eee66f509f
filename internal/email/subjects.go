package email

const (
	subjectActivationConfirmation = "Your activation is complete"
	subjectWorkflowReviewNeeded   = "Your activation needs review"
)
