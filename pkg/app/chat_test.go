package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/mood/pkg/inference"
	"tableflip.dev/mood/pkg/mood"
)

type inferFunc func(ctx context.Context, req inference.Request) (inference.Result, error)

func (f inferFunc) Infer(ctx context.Context, req inference.Request) (inference.Result, error) {
	return f(ctx, req)
}

func TestChatRecordsRemoteEmotion(t *testing.T) {
	clock := newFakeClock()
	svc := newTestService(newMemoryPersistence(), clock)
	var got inference.Request
	svc.Inferrer = inferFunc(func(_ context.Context, req inference.Request) (inference.Result, error) {
		got = req
		clock.Advance(time.Second)
		return inference.Result{Reply: "That sounds stressful.", Emotion: "stressed", Intensity: 7, HasEmotion: true}, nil
	})

	turns := []inference.Turn{{Role: "user", Text: "hi"}}
	reply, err := svc.Chat(context.Background(), "I'm really anxious about tomorrow", turns)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got.Text != "I'm really anxious about tomorrow" || len(got.Context) != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
	if reply.Reply != "That sounds stressful." || reply.ServiceUnavailable || reply.Crisis {
		t.Fatalf("unexpected reply %+v", reply)
	}
	rec := reply.Record
	if rec.Sample.Label != "stressed" || rec.Sample.Score != 30 || rec.Sample.Source != mood.SourceRemoteInference {
		t.Fatalf("unexpected record %v", rec)
	}
	if cur, ok := svc.Current(); !ok || cur.Sample.Source != mood.SourceRemoteInference {
		t.Fatalf("expected remote record to be current, got %v", cur)
	}
}

func TestChatClassifiesReplyWithoutEmotion(t *testing.T) {
	svc := newTestService(newMemoryPersistence(), newFakeClock())
	svc.Inferrer = inferFunc(func(context.Context, inference.Request) (inference.Result, error) {
		return inference.Result{Reply: "That sounds great, enjoy it!"}, nil
	})

	reply, err := svc.Chat(context.Background(), "so tired today", nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	rec := reply.Record
	if rec.Sample.Label != "happy" || rec.Sample.Score != 85 || rec.Sample.Source != mood.SourceLocalHeuristic {
		t.Fatalf("expected reply text to be classified, got %v", rec)
	}
}

func TestChatKeepsLocalClassificationOnFailure(t *testing.T) {
	svc := newTestService(newMemoryPersistence(), newFakeClock())
	svc.Inferrer = inferFunc(func(context.Context, inference.Request) (inference.Result, error) {
		return inference.Result{}, errors.New("connection refused")
	})

	reply, err := svc.Chat(context.Background(), "I'm really anxious about tomorrow", nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !reply.ServiceUnavailable {
		t.Fatalf("expected service unavailable flag")
	}
	rec := reply.Record
	if rec.Sample.Label != "anxious" || rec.Sample.Score != 55 || rec.Sample.Source != mood.SourceLocalHeuristic {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestChatPassesCrisisThrough(t *testing.T) {
	svc := newTestService(newMemoryPersistence(), newFakeClock())
	svc.Inferrer = inferFunc(func(context.Context, inference.Request) (inference.Result, error) {
		return inference.Result{Reply: "Please reach out.", Emotion: "sad", Intensity: 10, HasEmotion: true, Crisis: true}, nil
	})

	reply, err := svc.Chat(context.Background(), "everything is too much", nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !reply.Crisis {
		t.Fatalf("expected crisis flag")
	}
	if reply.Record.Sample.Score != 0 {
		t.Fatalf("expected score 0 for intensity 10, got %d", reply.Record.Sample.Score)
	}
}

func TestChatWithoutInferrerIsLocalOnly(t *testing.T) {
	svc := newTestService(newMemoryPersistence(), newFakeClock())
	reply, err := svc.Chat(context.Background(), "feeling calm", nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Record.Sample.Label != "calm" || reply.Reply != "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestChatMergesAfterCallerGoesAway(t *testing.T) {
	clock := newFakeClock()
	svc := newTestService(newMemoryPersistence(), clock)
	release := make(chan struct{})
	svc.Inferrer = inferFunc(func(ctx context.Context, _ inference.Request) (inference.Result, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return inference.Result{}, ctx.Err()
		}
		clock.Advance(time.Second)
		return inference.Result{Reply: "ok", Emotion: "calm", Intensity: 2, HasEmotion: true}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	reply, err := svc.Chat(ctx, "so upset", nil)
	if !errors.Is(err, context.Canceled) || !reply.Pending {
		t.Fatalf("expected pending reply after cancel, got %+v %v", reply, err)
	}
	if reply.Record.Sample.Label != "sad" {
		t.Fatalf("expected optimistic local record, got %v", reply.Record)
	}

	close(release)
	svc.Close()

	cur, ok := svc.Current()
	if !ok || cur.Sample.Label != "calm" || cur.Sample.Score != 80 || cur.Sample.Source != mood.SourceRemoteInference {
		t.Fatalf("expected remote result merged after cancel, got %v", cur)
	}
}

func TestChatAfterCloseSkipsRemote(t *testing.T) {
	svc := newTestService(newMemoryPersistence(), newFakeClock())
	called := false
	svc.Inferrer = inferFunc(func(context.Context, inference.Request) (inference.Result, error) {
		called = true
		return inference.Result{}, nil
	})
	svc.Close()

	_, err := svc.Chat(context.Background(), "feeling calm", nil)
	if !errors.Is(err, errClosed) {
		t.Fatalf("expected errClosed, got %v", err)
	}
	if called {
		t.Fatalf("expected no remote call after close")
	}
}

func TestChatReplyMatchesStoreWhenMergeFails(t *testing.T) {
	mp := newMemoryPersistence()
	clock := newFakeClock()
	svc := newTestService(mp, clock)
	svc.Inferrer = inferFunc(func(context.Context, inference.Request) (inference.Result, error) {
		mp.setSaveErr(errors.New("disk full"))
		clock.Advance(time.Second)
		return inference.Result{Reply: "Hang in there.", Emotion: "sad", Intensity: 6, HasEmotion: true}, nil
	})

	reply, err := svc.Chat(context.Background(), "feeling good", nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	cur, ok := svc.Current()
	if !ok || cur.Sample.Label != "happy" {
		t.Fatalf("expected local record to stand, got %v %v", cur, ok)
	}
	if reply.Record != cur {
		t.Fatalf("expected reply record %v to match the store %v", reply.Record, cur)
	}
}
