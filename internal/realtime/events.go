package realtime

const (
	EventAnnouncement  = "announcement"
	EventAccountStatus = "account_status"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
