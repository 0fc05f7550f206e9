package hdhomerun

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func Test_client_StreamURL(t *testing.T) {
	c := New("192.168.1.50")
	if got, want := c.StreamURL("7.1"), "http://192.168.1.50:5004/auto/v7.1"; got != want {
		t.Errorf("client.StreamURL() = %v, want %v", got, want)
	}
}

func Test_client_ChannelName(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/lineup.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"GuideNumber":"7.1","GuideName":"KTBC-HD","URL":"http://x/auto/v7.1"},{"GuideNumber":"18.1","GuideName":"KLRN-HD"}]`)
	}))
	defer srv.Close()

	c := &client{httpClient: srv.Client(), host: "unused", lineupURL: srv.URL + "/lineup.json"}
	ctx := context.Background()

	tests := []struct {
		channel string
		want    string
	}{
		{channel: "7.1", want: "KTBC-HD"},
		{channel: "18.1", want: "KLRN-HD"},
		{channel: "99.1", want: "99.1"},
	}
	for _, tt := range tests {
		if got := c.ChannelName(ctx, tt.channel); got != tt.want {
			t.Errorf("client.ChannelName(%q) = %v, want %v", tt.channel, got, tt.want)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("lineup fetched %d times, want 1", n)
	}
}

func Test_client_ChannelName_lineupDown(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &client{httpClient: srv.Client(), host: "unused", lineupURL: srv.URL + "/lineup.json"}
	for i := 0; i < 2; i++ {
		if got := c.ChannelName(context.Background(), "7.1"); got != "7.1" {
			t.Errorf("client.ChannelName() = %v, want channel number", got)
		}
	}
	// 失敗はキャッシュしない
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("lineup fetched %d times, want 2", n)
	}
}
