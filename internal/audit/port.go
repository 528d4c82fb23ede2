package audit

type AuditServiceAPI interface {
	GetEntries(input AuditFilterInput) ([]AuditEntry, int64, int, error)
}
