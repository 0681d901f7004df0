package email

const (
	subjectQuotationRejectedFmt = "Quotation %s rejected - revision needed"
	subjectQuotationAcceptedFmt = "Quotation %s accepted by client"
	subjectQuotationDeclinedFmt = "Quotation %s declined by client"
	subjectTaskAssignedFmt      = "New task: %s"
)
