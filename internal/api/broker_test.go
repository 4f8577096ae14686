package api

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("j1")

	evt := JobEvent{JobID: "j1", Status: "RUNNING", TS: time.Now().UTC().Format(time.RFC3339Nano)}
	b.Publish("j1", evt)

	select {
	case got := <-ch:
		if got.Status != "RUNNING" || got.JobID != "j1" {
			t.Fatalf("got %+v", got)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe("j1", ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestBrokerIsolatesJobs(t *testing.T) {
	b := NewBroker()
	ch1 := b.Subscribe("j1")
	ch2 := b.Subscribe("j2")
	defer b.Unsubscribe("j1", ch1)
	defer b.Unsubscribe("j2", ch2)

	b.Publish("j1", JobEvent{JobID: "j1", Status: "SUCCEEDED"})

	select {
	case <-ch1:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("subscriber for j1 got nothing")
	}
	select {
	case got := <-ch2:
		t.Fatalf("subscriber for j2 got %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRedisBrokerPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := NewRedisBroker("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisBroker: %v", err)
	}
	ch := b.Subscribe("j1")
	defer b.Unsubscribe("j1", ch)

	b.Publish("j1", JobEvent{JobID: "j1", Status: "SUCCEEDED", TS: time.Now().UTC().Format(time.RFC3339Nano)})

	select {
	case got := <-ch:
		if got.Status != "SUCCEEDED" || got.JobID != "j1" {
			t.Fatalf("got %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redis event")
	}
}
