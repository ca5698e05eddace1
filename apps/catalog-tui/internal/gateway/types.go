package gateway

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response は2xxレスポンスを表す。
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode はボディをJSONとして v に展開する。
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// RequestOption はリクエスト単位の設定
type RequestOption func(*request)

type request struct {
	body    any
	file    *fileField
	query   map[string]string
	headers map[string]string
}

type fileField struct {
	field string
	name  string
	data  io.Reader
}

// WithJSON はボディをJSONとして送信する。
func WithJSON(v any) RequestOption {
	return func(r *request) {
		r.body = v
	}
}

// WithFile はmultipart/form-dataでファイルを送信する。
// Content-Typeはboundary付きでトランスポートが設定する。
func WithFile(field, name string, data io.Reader) RequestOption {
	return func(r *request) {
		r.file = &fileField{field: field, name: name, data: data}
	}
}

// WithQuery はクエリパラメータを追加する。
func WithQuery(key, value string) RequestOption {
	return func(r *request) {
		if r.query == nil {
			r.query = make(map[string]string)
		}
		r.query[key] = value
	}
}

// WithHeader はヘッダを追加する。
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[key] = value
	}
}
