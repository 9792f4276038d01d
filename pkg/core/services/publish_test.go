package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// mockPublisher implements SchedulePublisher
type mockPublisher struct {
	spreadsheetID string
	tab           string
	published     model.Snapshot
	err           error
}

func (m *mockPublisher) PublishSchedule(spreadsheetID, tabTitle string, schedule model.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.tab = tabTitle
	m.published = schedule
	return nil
}

func TestPublishSchedule_SortsBySlot(t *testing.T) {
	store := &mockStore{session: sessionWith(model.Snapshot{
		class("late", model.Friday, "18:00", "L", "Barre", "A", 1),
		class("early", model.Monday, "07:00", "L", "Yoga", "B", 1),
	})}
	publisher := &mockPublisher{}

	count, err := PublishSchedule(context.Background(), store, publisher, zap.NewNop(), "sheet-1", "Schedule")
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, "sheet-1", publisher.spreadsheetID)
	assert.Equal(t, "Schedule", publisher.tab)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, "early", publisher.published[0].ID)

	// The stored order is untouched
	assert.Equal(t, "late", store.session.Schedule[0].ID)
}

func TestPublishSchedule_Errors(t *testing.T) {
	_, err := PublishSchedule(context.Background(), &mockStore{}, &mockPublisher{}, zap.NewNop(), "", "Schedule")
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = PublishSchedule(context.Background(), &mockStore{}, &mockPublisher{err: boom}, zap.NewNop(), "sheet-1", "Schedule")
	assert.ErrorIs(t, err, boom)
}
