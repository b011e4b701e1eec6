package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/file"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/memory"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/sqlite"
)

func runSlotTest(t *testing.T, newSlot func(t *testing.T) interfaces.SessionSlot) {
	t.Helper()

	t.Run("Load returns nil when nothing is stored", func(t *testing.T) {
		slot := newSlot(t)
		data, err := slot.Load(context.Background(), interfaces.SessionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, data).Nil()
	})

	t.Run("Save then Load returns the stored bytes", func(t *testing.T) {
		slot := newSlot(t)
		ctx := context.Background()

		gt.NoError(t, slot.Save(ctx, interfaces.SessionKey, []byte(`{"patient_id":"P1"}`))).Required()
		data, err := slot.Load(ctx, interfaces.SessionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal(`{"patient_id":"P1"}`)
	})

	t.Run("Save replaces previous content", func(t *testing.T) {
		slot := newSlot(t)
		ctx := context.Background()

		gt.NoError(t, slot.Save(ctx, interfaces.SessionKey, []byte("first, and longer"))).Required()
		gt.NoError(t, slot.Save(ctx, interfaces.SessionKey, []byte("second"))).Required()
		data, err := slot.Load(ctx, interfaces.SessionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("second")
	})

	t.Run("Delete removes the content and tolerates missing keys", func(t *testing.T) {
		slot := newSlot(t)
		ctx := context.Background()

		gt.NoError(t, slot.Save(ctx, interfaces.SessionKey, []byte("x"))).Required()
		gt.NoError(t, slot.Delete(ctx, interfaces.SessionKey)).Required()
		gt.NoError(t, slot.Delete(ctx, interfaces.SessionKey)).Required()

		data, err := slot.Load(ctx, interfaces.SessionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, data).Nil()
	})

	t.Run("keys are independent", func(t *testing.T) {
		slot := newSlot(t)
		ctx := context.Background()

		gt.NoError(t, slot.Save(ctx, "a", []byte("1"))).Required()
		gt.NoError(t, slot.Save(ctx, "b", []byte("2"))).Required()
		gt.NoError(t, slot.Delete(ctx, "a")).Required()

		data, err := slot.Load(ctx, "b")
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("2")
	})
}

func TestMemorySlot(t *testing.T) {
	runSlotTest(t, func(t *testing.T) interfaces.SessionSlot {
		return memory.New()
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		slot := memory.New()
		ctx := context.Background()
		gt.NoError(t, slot.Save(ctx, "k", []byte("abc"))).Required()

		data, err := slot.Load(ctx, "k")
		gt.NoError(t, err).Required()
		data[0] = 'z'

		again, err := slot.Load(ctx, "k")
		gt.NoError(t, err).Required()
		gt.Value(t, string(again)).Equal("abc")
	})
}

func TestFileSlot(t *testing.T) {
	runSlotTest(t, func(t *testing.T) interfaces.SessionSlot {
		return file.New(filepath.Join(t.TempDir(), "healthdesk"))
	})

	t.Run("session file is private and no temp files remain", func(t *testing.T) {
		dir := t.TempDir()
		slot := file.New(dir)
		gt.NoError(t, slot.Save(context.Background(), interfaces.SessionKey, []byte("{}"))).Required()

		info, err := os.Stat(filepath.Join(dir, "user.json"))
		gt.NoError(t, err).Required()
		gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0o600))

		entries, err := os.ReadDir(dir)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
	})
}

func TestSQLiteSlot(t *testing.T) {
	runSlotTest(t, func(t *testing.T) interfaces.SessionSlot {
		slot, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "state.db"))
		gt.NoError(t, err).Required()
		t.Cleanup(func() { _ = slot.Close() })
		return slot
	})

	t.Run("content survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.db")
		ctx := context.Background()

		slot, err := sqlite.New(ctx, path)
		gt.NoError(t, err).Required()
		gt.NoError(t, slot.Save(ctx, interfaces.SessionKey, []byte("kept"))).Required()
		gt.NoError(t, slot.Close()).Required()

		reopened, err := sqlite.New(ctx, path)
		gt.NoError(t, err).Required()
		defer reopened.Close()

		data, err := reopened.Load(ctx, interfaces.SessionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("kept")
	})
}
