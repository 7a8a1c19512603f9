package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	dirmodel "FProject/module/directory/model"
	fbmodel "FProject/module/feedback/model"
	"FProject/tools/errs"
)

// memStore 内存版 Store：语义对齐 mongo 实现，单测专用。
type memStore struct {
	mu        sync.Mutex
	nextID    int
	questions []fbmodel.Question
	queue     []fbmodel.AskQueueEntry
	feedbacks map[string]*fbmodel.FeedbackDoc
	wizards   map[string]fbmodel.WizardStatus
}

func newMemStore() *memStore {
	return &memStore{
		feedbacks: make(map[string]*fbmodel.FeedbackDoc),
		wizards:   make(map[string]fbmodel.WizardStatus),
	}
}

func (s *memStore) genID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *memStore) ListQuestions(ctx context.Context) ([]fbmodel.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fbmodel.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *memStore) AddQuestion(ctx context.Context, content string) (fbmodel.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := fbmodel.Question{QuestionID: s.genID(), Content: content}
	s.questions = append(s.questions, q)
	s.renumber()
	return s.questions[len(s.questions)-1], nil
}

func (s *memStore) RemoveQuestion(ctx context.Context, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.questions {
		if q.Index == index {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			s.renumber()
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) renumber() {
	for i := range s.questions {
		s.questions[i].Index = i + 1
	}
}

func (s *memStore) Enqueue(ctx context.Context, entries []fbmodel.AskQueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, entries...)
	return nil
}

func (s *memStore) NextToAsk(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.queue {
		if e.GiverID == giverID && e.Status == fbmodel.AskStatusToAsk {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memStore) AskedEntry(ctx context.Context, giverID string) (*fbmodel.AskQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.queue {
		if e.GiverID == giverID && e.Status == fbmodel.AskStatusAsked {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memStore) MarkAsked(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.queue {
		if e.EntryID == entryID && e.Status == fbmodel.AskStatusToAsk {
			s.queue[i].Status = fbmodel.AskStatusAsked
		}
	}
	return nil
}

func (s *memStore) DeleteEntry(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.queue {
		if e.EntryID == entryID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) AppendFeedback(ctx context.Context, receiverID, receiverNick string, e fbmodel.FeedbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.feedbacks[receiverID]
	if !ok {
		doc = &fbmodel.FeedbackDoc{ReceiverID: receiverID, ReceiverNick: receiverNick}
		s.feedbacks[receiverID] = doc
	}
	doc.Entries = append(doc.Entries, e)
	return nil
}

func (s *memStore) ListFeedback(ctx context.Context, receiverID string) (*fbmodel.FeedbackDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.feedbacks[receiverID]
	if !ok {
		return nil, nil
	}
	out := *doc
	out.Entries = append([]fbmodel.FeedbackEntry(nil), doc.Entries...)
	return &out, nil
}

func (s *memStore) GetWizard(ctx context.Context, adminID string) (fbmodel.WizardStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizards[adminID], nil
}

func (s *memStore) UpsertWizard(ctx context.Context, adminID string, status fbmodel.WizardStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[adminID] = status
	return nil
}

func (s *memStore) ClearWizard(ctx context.Context, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, adminID)
	return nil
}

// 统计辅助
func (s *memStore) countQueue(giverID, status string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.queue {
		if (giverID == "" || e.GiverID == giverID) && e.Status == status {
			n++
		}
	}
	return n
}

// fakeResolver token 表驱动的目录假实现。
type fakeResolver struct {
	recipients map[string][]dirmodel.Recipient
	labels     map[string]string
	admins     map[string]bool
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		recipients: make(map[string][]dirmodel.Recipient),
		labels:     make(map[string]string),
		admins:     make(map[string]bool),
	}
}

func (r *fakeResolver) addUser(token, id, nick string) {
	r.recipients[token] = []dirmodel.Recipient{{ID: id, Nick: nick}}
	r.labels[token] = nick
}

func (r *fakeResolver) addGroup(token string, members ...dirmodel.Recipient) {
	r.recipients[token] = members
	r.labels[token] = "@" + token
}

func (r *fakeResolver) Resolve(ctx context.Context, token string) ([]dirmodel.Recipient, string, error) {
	got, ok := r.recipients[token]
	if !ok {
		return nil, "", errs.NewCodeError(errs.CodeTargetNotFound,
			fmt.Sprintf("Username `%s` not found.", token))
	}
	return got, r.labels[token], nil
}

func (r *fakeResolver) IsAdmin(ctx context.Context, userID string) bool {
	return r.admins[userID]
}

// recordSender 记录出站消息；可指定某些用户发送失败。
type recordSender struct {
	mu     sync.Mutex
	sent   []sentMsg
	failTo map[string]bool
}

type sentMsg struct {
	To   string
	Text string
}

func newRecordSender() *recordSender {
	return &recordSender{failTo: make(map[string]bool)}
}

func (s *recordSender) SendText(ctx context.Context, userID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo[userID] {
		return errs.New("transport down")
	}
	s.sent = append(s.sent, sentMsg{To: userID, Text: text})
	return nil
}

func (s *recordSender) toUser(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.sent {
		if m.To == userID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (s *recordSender) last() (sentMsg, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentMsg{}, false
	}
	return s.sent[len(s.sent)-1], true
}

func (s *recordSender) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
