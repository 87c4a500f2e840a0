package constant

const (
	TurnRoleUser   = "user"
	TurnRoleBot    = "bot"
	TurnRoleSystem = "system"
)

// Stage names on the wire. These are stable and versioned together with
// the client; human-facing labels live at the presentation boundary,
// never here.
const (
	StageAskName   = "ASK_NAME"
	StageAskPan    = "ASK_PAN"
	StageAskIncome = "ASK_INCOME"
	StageAskEmi    = "ASK_EMI"
	StageAskAmount = "ASK_AMOUNT"
	StageAskTenure = "ASK_TENURE"
	StageCompleted = "COMPLETED"
	StageRejected  = "REJECTED"
)

// Agent attribution per resulting stage. Informational only, the
// machine never branches on these.
const (
	AgentOrchestrator = "orchestrator"
	AgentIdentity     = "identity"
	AgentEligibility  = "eligibility"
	AgentDocument     = "document"
)

const UiActionShowSanctionDownload = "SHOW_SANCTION_DOWNLOAD"

// Fact keys. Each is write-once for the lifetime of a session.
const (
	FactName   = "name"
	FactPan    = "pan"
	FactIncome = "income"
	FactEmi    = "emi"
	FactAmount = "amount"
	FactTenure = "tenure"
)

const (
	ReplyAskName = "To get started, please enter your full name (for example: Rahul Sharma)."

	ReplyAskPanFormat = "Thanks %s. I'll start your loan application.\n\nPlease share your PAN number for identity verification."
	ReplyInvalidPan   = "Please enter a valid PAN number (example: ABCDE1234F)."
	ReplyPanRejected  = "PAN verification failed. Please double-check the PAN number."

	ReplyAskIncome     = "Your PAN has been successfully verified.\n\nI'll now gather a few financial details to evaluate your loan eligibility.\nWhat is your monthly income?"
	ReplyInvalidIncome = "Please enter your monthly income as a number (for example: 50000)."

	ReplyAskEmi     = "Got it.\n\nDo you currently have any existing EMIs? If yes, enter the amount. Otherwise, type 'none'."
	ReplyInvalidEmi = "Please enter a valid EMI amount or type 'none'."

	ReplyAskAmount     = "Thanks.\n\nHow much loan amount are you looking for?"
	ReplyInvalidAmount = "Please enter the loan amount as a number (for example: 100000)."

	ReplyAskTenure     = "Noted.\n\nWhat loan tenure do you prefer? (For example: 12, 24, or 36 months)"
	ReplyInvalidTenure = "Please enter the tenure in months (numbers only)."

	ReplyAssessmentPrefix = "Thanks. I'm now running a quick eligibility and credit assessment based on the details you shared.\n\n"

	ReplyRejectedFormat = "At the moment, your application does not meet our criteria.\n\nReason: %s.\n\nYou may improve eligibility by choosing a longer tenure or reducing the loan amount."

	ReplyApprovedFormat = "Good news! Your loan has been approved.\n\nApproved Amount: INR %s\nTenure: %d months\nInterest Rate: %.0f%% per annum\n\nBased on your profile, your EMI comfortably fits within our internal affordability checks.\n\nYou can download your sanction letter below."

	ReplyAlreadyCompleted = "Your loan process is already complete.\n\nYou can download your sanction letter below."
	ReplyAlreadyRejected  = "We're unable to proceed further with this application at the moment.\n\nIf you'd like, you can restart the journey with updated details."

	ReplyTransientIssue = "We hit a temporary issue while processing that. Nothing was lost - please send your message again in a moment."
)
