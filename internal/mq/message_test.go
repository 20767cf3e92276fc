package mq

import "testing"

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeSubmission, SubmissionPayload{
		Group:     "hic_test",
		Name:      "hic_test_merge01",
		Command:   "hic_merge --out /data/merged.txt",
		Queue:     "long",
		MemoryMB:  16384,
		DependsOn: []string{"hic_test_fragsort01"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.ID == "" {
		t.Error("message ID should be generated")
	}
	if msg.Type != MessageTypeSubmission {
		t.Errorf("Type = %s", msg.Type)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestParsePayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeTaskEvent, TaskEventPayload{
		Group:    "hic_test",
		TaskID:   "hic_test_align101",
		State:    "FAILED",
		ExitCode: 2,
		Error:    "aligner crashed",
	})
	if err != nil {
		t.Fatal(err)
	}

	payload, err := ParsePayload[TaskEventPayload](msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.TaskID != "hic_test_align101" {
		t.Errorf("TaskID = %s", payload.TaskID)
	}
	if payload.State != "FAILED" || payload.ExitCode != 2 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	msg := &Message{Type: MessageTypeCancel, Payload: []byte("{not json")}

	if _, err := ParsePayload[CancelPayload](msg); err == nil {
		t.Error("expected error for malformed payload")
	}
}
