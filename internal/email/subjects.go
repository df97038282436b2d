package email

const subjectApprovalRequestFmt = "[%s] Approval needed: %s"
