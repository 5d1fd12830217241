package todo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/task"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return New(store.New())
}

func strPtr(s string) *string { return &s }

func ids(tasks []task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestValidateTitle(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantMsg string
	}{
		{"plain", "Buy groceries", "Buy groceries", ""},
		{"trimmed", "  Buy groceries  ", "Buy groceries", ""},
		{"exactly 200", strings.Repeat("x", 200), strings.Repeat("x", 200), ""},
		{"200 after trim", "  " + strings.Repeat("x", 200) + "\t", strings.Repeat("x", 200), ""},
		{"multibyte counted as characters", strings.Repeat("é", 200), strings.Repeat("é", 200), ""},
		{"empty", "", "", "Task title cannot be empty"},
		{"whitespace only", " \t\n ", "", "Task title cannot be empty"},
		{"201", strings.Repeat("x", 201), "", "Task title exceeds 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateTitle(tt.input)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"whitespace normalizes to empty", "   ", "", false},
		{"trimmed", " Milk, eggs ", "Milk, eggs", false},
		{"exactly 500", strings.Repeat("y", 500), strings.Repeat("y", 500), false},
		{"501", strings.Repeat("y", 501), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateDescription(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), "500 characters")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdd_SequentialIDs(t *testing.T) {
	svc := newService(t)

	for want := 1; want <= 20; want++ {
		tk, err := svc.Add(fmt.Sprintf("Task %d", want), "")
		require.NoError(t, err)
		assert.Equal(t, want, tk.ID)
		assert.Equal(t, task.StatusIncomplete, tk.Status)
	}
}

func TestAdd_UsesClock(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	svc := New(store.New(), WithClock(func() time.Time { return fixed }))

	tk, err := svc.Add("Pi day", "")
	require.NoError(t, err)
	assert.True(t, tk.CreatedAt.Equal(fixed))
}

func TestAdd_ValidationErrors(t *testing.T) {
	svc := newService(t)

	_, err := svc.Add("", "")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "empty")

	_, err = svc.Add(strings.Repeat("x", 201), "")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "200")

	_, err = svc.Add("Task", strings.Repeat("y", 501))
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "500")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "description", ve.Field)

	// Failed adds never consume an ID.
	tk, err := svc.Add("First real task", "")
	require.NoError(t, err)
	assert.Equal(t, 1, tk.ID)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	svc := newService(t)

	t1, err := svc.Add("Buy groceries", "Milk, eggs, bread")
	require.NoError(t, err)
	assert.Equal(t, 1, t1.ID)
	assert.Equal(t, "Milk, eggs, bread", t1.Description)

	t2, err := svc.Add("Call dentist", "")
	require.NoError(t, err)
	assert.Equal(t, 2, t2.ID)

	deleted, err := svc.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries", deleted.Title)

	t3, err := svc.Add("Finish project", "")
	require.NoError(t, err)
	assert.Equal(t, 3, t3.ID)

	assert.Equal(t, []int{2, 3}, ids(svc.List()))
}

func TestDeleteLastThenAdd(t *testing.T) {
	svc := newService(t)
	for i := 0; i < 5; i++ {
		_, err := svc.Add("t", "")
		require.NoError(t, err)
	}
	_, err := svc.Delete(5)
	require.NoError(t, err)
	_, err = svc.Delete(2)
	require.NoError(t, err)

	tk, err := svc.Add("Task 6", "")
	require.NoError(t, err)
	assert.Equal(t, 6, tk.ID)
	assert.Equal(t, []int{1, 3, 4, 6}, ids(svc.List()))
}

func TestGet(t *testing.T) {
	svc := newService(t)

	_, err := svc.Get(999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Task ID 999 not found", err.Error())

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 999, nf.ID)

	added, err := svc.Add("Read", "a book")
	require.NoError(t, err)
	got, err := svc.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestReturnedTasksAreCopies(t *testing.T) {
	svc := newService(t)
	tk, err := svc.Add("Original", "")
	require.NoError(t, err)

	tk.Title = "Mutated by caller"
	list := svc.List()
	list[0].Status = task.StatusComplete

	got, err := svc.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, task.StatusIncomplete, got.Status)
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	orig, err := svc.Add("Buy groceries", "Milk")
	require.NoError(t, err)

	t.Run("no fields", func(t *testing.T) {
		got, changed, err := svc.Update(orig.ID, nil, nil)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, orig, got)
	})

	t.Run("same values", func(t *testing.T) {
		got, changed, err := svc.Update(orig.ID, strPtr("Buy groceries"), strPtr("Milk"))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, orig.ID, got.ID)
		assert.True(t, got.CreatedAt.Equal(orig.CreatedAt))
	})

	t.Run("same after trimming", func(t *testing.T) {
		_, changed, err := svc.Update(orig.ID, strPtr("  Buy groceries "), nil)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("title only", func(t *testing.T) {
		got, changed, err := svc.Update(orig.ID, strPtr("Get groceries"), nil)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "Get groceries", got.Title)
		assert.Equal(t, "Milk", got.Description)
	})

	t.Run("clear description", func(t *testing.T) {
		got, changed, err := svc.Update(orig.ID, nil, strPtr(""))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "", got.Description)
	})

	t.Run("both fields", func(t *testing.T) {
		got, changed, err := svc.Update(orig.ID, strPtr("Shop"), strPtr("Milk, eggs, bread"))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "Shop", got.Title)
		assert.Equal(t, "Milk, eggs, bread", got.Description)
		assert.True(t, got.CreatedAt.Equal(orig.CreatedAt))
	})

	t.Run("missing task", func(t *testing.T) {
		_, _, err := svc.Update(42, strPtr("x"), nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid title", func(t *testing.T) {
		_, _, err := svc.Update(orig.ID, strPtr("   "), nil)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestUpdate_AllOrNothing(t *testing.T) {
	svc := newService(t)
	orig, err := svc.Add("Before", "Old description")
	require.NoError(t, err)

	_, changed, err := svc.Update(orig.ID, strPtr("After"), strPtr(strings.Repeat("z", 501)))
	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, changed)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "description", ve.Field)

	got, err := svc.Get(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Before", got.Title, "valid title must not be applied when description fails")
	assert.Equal(t, "Old description", got.Description)
}

func TestUpdate_TitleErrorReportedFirst(t *testing.T) {
	svc := newService(t)
	orig, err := svc.Add("Task", "")
	require.NoError(t, err)

	_, _, err = svc.Update(orig.ID, strPtr(""), strPtr(strings.Repeat("z", 501)))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)
	assert.Equal(t, "Task title cannot be empty", ve.Msg)
}

func TestMarkCompleteIncomplete(t *testing.T) {
	svc := newService(t)
	tk, err := svc.Add("Test Task", "")
	require.NoError(t, err)

	done, err := svc.MarkComplete(tk.ID)
	require.NoError(t, err)
	assert.True(t, done.IsComplete())

	_, err = svc.MarkComplete(tk.ID)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Task is already complete", err.Error())

	open, err := svc.MarkIncomplete(tk.ID)
	require.NoError(t, err)
	assert.False(t, open.IsComplete())

	_, err = svc.MarkIncomplete(tk.ID)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Task is already incomplete", err.Error())

	_, err = svc.MarkComplete(999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.MarkIncomplete(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggle(t *testing.T) {
	svc := newService(t)
	tk, err := svc.Add("Flip me", "")
	require.NoError(t, err)

	got, err := svc.Toggle(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusComplete, got.Status)

	got, err = svc.Toggle(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusIncomplete, got.Status)

	_, err = svc.Toggle(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	tk, err := svc.Add("Temp", "")
	require.NoError(t, err)

	removed, err := svc.Delete(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk, removed)

	_, err = svc.Get(tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatistics(t *testing.T) {
	svc := newService(t)
	assert.Equal(t, Stats{}, svc.Statistics())

	for i := 1; i <= 100; i++ {
		_, err := svc.Add(fmt.Sprintf("Task %d", i), "")
		require.NoError(t, err)
	}
	for _, tk := range svc.List()[:50] {
		_, err := svc.MarkComplete(tk.ID)
		require.NoError(t, err)
	}

	stats := svc.Statistics()
	assert.Equal(t, Stats{Total: 100, Completed: 50, Remaining: 50}, stats)
	assert.Equal(t, stats.Total, stats.Completed+stats.Remaining)
	assert.Equal(t, len(svc.List()), stats.Total)

	_, err := svc.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 99, Completed: 49, Remaining: 50}, svc.Statistics())
}

func TestListSortedUnderInterleaving(t *testing.T) {
	svc := newService(t)
	ops := []string{"add", "add", "add", "del:2", "add", "del:1", "add", "add", "del:5"}
	for _, op := range ops {
		if strings.HasPrefix(op, "del:") {
			var id int
			fmt.Sscanf(op, "del:%d", &id)
			_, err := svc.Delete(id)
			require.NoError(t, err)
			continue
		}
		_, err := svc.Add("t", "")
		require.NoError(t, err)
	}

	list := svc.List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
	assert.Equal(t, []int{3, 4, 6}, ids(list))
}

func TestIndependentStores(t *testing.T) {
	a := newService(t)
	b := newService(t)

	_, err := a.Add("a1", "")
	require.NoError(t, err)
	_, err = a.Add("a2", "")
	require.NoError(t, err)

	tk, err := b.Add("b1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, tk.ID)
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	svc := New(store.New(), WithLogger(logger))

	tk, err := svc.Add("Logged", "")
	require.NoError(t, err)
	_, err = svc.MarkComplete(tk.ID)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "task added")
	assert.Contains(t, out, "task status changed")
}

func TestReset(t *testing.T) {
	svc := newService(t)
	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Add(title, "")
		require.NoError(t, err)
	}

	svc.Reset()
	assert.Empty(t, svc.List())
	assert.Equal(t, Stats{}, svc.Statistics())

	tk, err := svc.Add("fresh", "")
	require.NoError(t, err)
	assert.Equal(t, 1, tk.ID)
}
