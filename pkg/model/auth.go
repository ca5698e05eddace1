package model

// LoginRequest は POST /admin/login のリクエストボディを表す。
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse は POST /admin/login のレスポンスを表す。
// token 以外のフィールドは利用しない。
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse はサーバーのメッセージ封筒 {message} を表す。
// エラー応答とバルクインポート結果の両方で使われる。
type MessageResponse struct {
	Message string `json:"message"`
}
