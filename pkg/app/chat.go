package app

import (
	"context"

	"tableflip.dev/mood/pkg/inference"
	"tableflip.dev/mood/pkg/metrics"
	"tableflip.dev/mood/pkg/mood"
)

// ChatReply is the outcome of one chat message.
type ChatReply struct {
	Reply  string         `json:"reply"`
	Record mood.DayRecord `json:"record"`
	Crisis bool           `json:"crisis"`
	// ServiceUnavailable is set when the remote classifier failed and only the
	// local classification was recorded.
	ServiceUnavailable bool `json:"serviceUnavailable"`
	// Pending is set when the caller went away before the remote result came
	// back. The result is still merged when it arrives.
	Pending bool `json:"pending,omitempty"`
}

// Chat records a local classification of text right away, then asks the
// remote classifier. A result carrying an emotion is recorded as a remote
// inference; a result without one has its reply text classified locally.
// When the remote call fails the local classification stands.
func (s *Service) Chat(ctx context.Context, text string, turns []inference.Turn) (ChatReply, error) {
	if s.Persistence == nil {
		return ChatReply{}, errNoPersistence
	}
	s.init()
	// Persist failures are logged by RecordSignal and do not stop the chat.
	optimistic := s.recordedOr(s.RecordText(ctx, text))
	if s.Inferrer == nil {
		return ChatReply{Record: optimistic}, nil
	}

	timeout := s.InferenceTimeout
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	req := inference.Request{Text: text, Context: append([]inference.Turn(nil), turns...)}
	if !s.startInference() {
		return ChatReply{Record: optimistic}, errClosed
	}
	done := make(chan ChatReply, 1)
	go func() {
		defer s.inflight.Done()
		detached := context.WithoutCancel(ctx)
		ictx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		res, err := s.Inferrer.Infer(ictx, req)
		done <- s.mergeInference(detached, optimistic, res, err)
	}()

	select {
	case reply := <-done:
		return reply, nil
	case <-ctx.Done():
		return ChatReply{Record: optimistic, Pending: true}, ctx.Err()
	}
}

func (s *Service) mergeInference(ctx context.Context, optimistic mood.DayRecord, res inference.Result, err error) ChatReply {
	if err != nil {
		metrics.InferenceRequests.WithLabelValues("error").Inc()
		s.log().Warn("remote inference failed, keeping local classification", "err", err)
		return ChatReply{Record: optimistic, ServiceUnavailable: true}
	}

	reply := ChatReply{Reply: res.Reply, Crisis: res.Crisis, Record: optimistic}
	switch {
	case res.HasEmotion:
		metrics.InferenceRequests.WithLabelValues("emotion").Inc()
		reply.Record = s.recordedOr(s.RecordRemoteInference(ctx, res.Emotion, res.Intensity))
	case res.Reply != "":
		metrics.InferenceRequests.WithLabelValues("no_emotion").Inc()
		label, score := s.Classifier.Classify(res.Reply)
		reply.Record = s.recordedOr(s.RecordSignal(ctx, mood.NewSample(label, score, mood.SourceLocalHeuristic, s.now())))
	default:
		metrics.InferenceRequests.WithLabelValues("no_emotion").Inc()
	}
	if res.Crisis {
		s.log().Warn("remote classifier flagged a crisis")
	}
	return reply
}

// recordedOr returns rec when it was stored, otherwise today's record as the
// service holds it.
func (s *Service) recordedOr(rec mood.DayRecord, err error) mood.DayRecord {
	if err == nil {
		return rec
	}
	cur, _ := s.Current()
	return cur
}
