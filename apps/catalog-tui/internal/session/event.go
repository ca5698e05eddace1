package session

// EventType はセッション変更の種別
type EventType string

const (
	// EventLogin はセッションが保存されたことを表す
	EventLogin EventType = "login"
	// EventLogout はセッションが削除されたことを表す
	EventLogout EventType = "logout"
)

// Reason はログアウトの理由
type Reason string

const (
	// ReasonLogout は利用者の操作によるログアウト
	ReasonLogout Reason = "logout"
	// ReasonExpired はサーバーが401を返したことによる失効
	ReasonExpired Reason = "expired"
)

// Event はセッション変更の通知内容
type Event struct {
	Type     EventType `json:"type"`
	Reason   Reason    `json:"reason,omitempty"`
	Username string    `json:"username,omitempty"`
	// Remote は別プロセスで発生した変更かどうか
	Remote bool `json:"-"`
}

// message はPub/Subに流すペイロード
type message struct {
	Origin string `json:"origin"`
	Event
}
