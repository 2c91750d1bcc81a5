package inbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
)

// fakeBackend is an in-memory Backend for engine tests. It records every
// mutation so tests can assert on call shapes, and injects failures per
// operation.
type fakeBackend struct {
	mu sync.Mutex

	messages  map[string]*gmailapi.Message
	searchIDs []string
	estimates map[string]int64
	labels    []*gmailapi.Label

	searchErr error
	getErr    map[string]error
	sendErr   error
	// batchErr fails the nth BatchModify call (1-based); 0 disables.
	batchErr     error
	batchFailOn  int
	deleteErr    error

	searchQueries []string
	searchMax     []int64
	batchCalls    [][]string
	batchAdds     [][]string
	batchRemoves  [][]string
	deletedLabels []string
	sentRaw       []string
	sentThreadIDs []string
	created       []*gmailapi.Label
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		messages:  map[string]*gmailapi.Message{},
		estimates: map[string]int64{},
		getErr:    map[string]error{},
	}
}

func (f *fakeBackend) addMessage(msg *gmailapi.Message) {
	f.messages[msg.Id] = msg
	f.searchIDs = append(f.searchIDs, msg.Id)
}

func (f *fakeBackend) SearchMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQueries = append(f.searchQueries, query)
	f.searchMax = append(f.searchMax, maxResults)
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	ids := f.searchIDs
	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	if est, ok := f.estimates[query]; ok {
		return ids, est, nil
	}
	return ids, int64(len(ids)), nil
}

func (f *fakeBackend) GetMessage(ctx context.Context, id, format string) (*gmailapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	msg, ok := f.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return msg, nil
}

func (f *fakeBackend) ListLabels(ctx context.Context) ([]*gmailapi.Label, error) {
	return f.labels, nil
}

func (f *fakeBackend) CreateLabel(ctx context.Context, name, backgroundColor, textColor string) (*gmailapi.Label, error) {
	label := &gmailapi.Label{Id: "Label_" + name, Name: name, Type: "user"}
	f.created = append(f.created, label)
	f.labels = append(f.labels, label)
	return label, nil
}

func (f *fakeBackend) DeleteLabel(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedLabels = append(f.deletedLabels, id)
	return nil
}

func (f *fakeBackend) PatchLabel(ctx context.Context, id, newName string) (*gmailapi.Label, error) {
	return &gmailapi.Label{Id: id, Name: newName, Type: "user"}, nil
}

func (f *fakeBackend) BatchModify(ctx context.Context, ids, addLabelIDs, removeLabelIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.batchCalls) + 1
	f.batchCalls = append(f.batchCalls, ids)
	f.batchAdds = append(f.batchAdds, addLabelIDs)
	f.batchRemoves = append(f.batchRemoves, removeLabelIDs)
	if f.batchErr != nil && call == f.batchFailOn {
		return f.batchErr
	}
	return nil
}

func (f *fakeBackend) Send(ctx context.Context, raw, threadID string) (*gmailapi.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentRaw = append(f.sentRaw, raw)
	f.sentThreadIDs = append(f.sentThreadIDs, threadID)
	return &gmailapi.Message{Id: "sent-1", ThreadId: threadID}, nil
}

// testMessage builds a metadata-style message record.
func testMessage(id, from, subject string, labels []string, date time.Time) *gmailapi.Message {
	return &gmailapi.Message{
		Id:           id,
		ThreadId:     "t-" + id,
		Snippet:      "snippet of " + id,
		LabelIds:     labels,
		InternalDate: date.UnixMilli(),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: from},
				{Name: "Subject", Value: subject},
				{Name: "Date", Value: date.Format(time.RFC1123Z)},
			},
		},
	}
}
