package usecase

import (
	"sync"
	"time"

	"github.com/sobadon/tvrd/domain/model/guide"
)

// 直前に見せた候補一覧
type session struct {
	show       string
	candidates []guide.Entry
	expires    time.Time
}

// 依頼者ごとの候補一覧
type sessions struct {
	ttl time.Duration

	mu    sync.Mutex
	items map[string]session
}

func newSessions(ttl time.Duration) *sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &sessions{ttl: ttl, items: make(map[string]session)}
}

func (s *sessions) put(requester, show string, candidates []guide.Entry, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[requester] = session{
		show:       show,
		candidates: append([]guide.Entry(nil), candidates...),
		expires:    now.Add(s.ttl),
	}
	// ついでに期限切れを掃除する
	for k, v := range s.items {
		if now.After(v.expires) {
			delete(s.items, k)
		}
	}
}

func (s *sessions) get(requester string, now time.Time) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[requester]
	if !ok {
		return session{}, false
	}
	if now.After(v.expires) {
		delete(s.items, requester)
		return session{}, false
	}
	return v, true
}
