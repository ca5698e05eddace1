// Package catalogstub はScan4health APIのインメモリ実装を提供する。
// 開発時の接続先およびクライアントのエンドツーエンドテストに使用する。
package catalogstub

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oyaguma3/scan4health-console/pkg/model"
)

// ErrNotFound は指定IDの検査が存在しないことを示す。
var ErrNotFound = errors.New("test not found")

// Store は検査レコードと発行済みトークンを保持する。
type Store struct {
	mu     sync.Mutex
	tests  map[string]model.LabTest
	order  []string
	tokens map[string]string // token -> username
}

// NewStore は新しいStoreを生成する。
func NewStore(seed ...model.LabTest) *Store {
	s := &Store{
		tests:  make(map[string]model.LabTest),
		tokens: make(map[string]string),
	}
	for _, t := range seed {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.put(t)
	}
	return s
}

func (s *Store) put(t model.LabTest) {
	if _, ok := s.tests[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tests[t.ID] = t
}

// List は登録順に全件を返す。
func (s *Store) List() []model.LabTest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.LabTest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tests[id])
	}
	return out
}

// Search は検査名の部分一致（大文字小文字無視）で検索する。
// 前方一致するものを先に並べる。
func (s *Store) Search(query string) []model.LabTest {
	query = strings.TrimSpace(query)
	all := s.List()
	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	out := make([]model.LabTest, 0)
	for _, t := range all {
		if t.NameContains(query) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(out[i].Name), q)
		pj := strings.HasPrefix(strings.ToLower(out[j].Name), q)
		return pi && !pj
	})
	return out
}

// Create は新規レコードを採番して登録する。
func (s *Store) Create(p *model.LabTestPayload) model.LabTest {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.LabTest{
		ID:                 uuid.NewString(),
		Name:               p.Name,
		DomesticPrice:      p.DomesticPrice,
		InternationalPrice: p.InternationalPrice,
		Precautions:        p.Precautions,
	}
	s.put(t)
	return t
}

// Update は既存レコードを置き換える。
func (s *Store) Update(id string, p *model.LabTestPayload) (model.LabTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tests[id]; !ok {
		return model.LabTest{}, ErrNotFound
	}
	t := model.LabTest{
		ID:                 id,
		Name:               p.Name,
		DomesticPrice:      p.DomesticPrice,
		InternationalPrice: p.InternationalPrice,
		Precautions:        p.Precautions,
	}
	s.tests[id] = t
	return t, nil
}

// Delete は1件削除する。
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tests[id]; !ok {
		return ErrNotFound
	}
	delete(s.tests, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll は全件削除し、削除件数を返す。
func (s *Store) DeleteAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	s.tests = make(map[string]model.LabTest)
	s.order = nil
	return n
}

// IssueToken はユーザーに新しいトークンを発行する。
func (s *Store) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = username
	return token
}

// TokenUser はトークンに対応するユーザー名を返す。
func (s *Store) TokenUser(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.tokens[token]
	return u, ok
}

// ExpireTokens は発行済みトークンをすべて失効させる。
func (s *Store) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = make(map[string]string)
}
