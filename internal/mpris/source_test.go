package mpris

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/mpris/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	testBus      = "org.mpris.MediaPlayer2.kew"
	metaProp     = "org.mpris.MediaPlayer2.Player.Metadata"
	positionProp = "org.mpris.MediaPlayer2.Player.Position"
	statusProp   = "org.mpris.MediaPlayer2.Player.PlaybackStatus"
)

// TestPoll unifies all scenarios regarding state polling:
// 1. Success (Happy Path)
// 2. DBus Errors (player not running)
// 3. Invalid Data types (Robustness)
func TestPoll(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockDBusClient)
		expected  domain.Snapshot
	}{
		{
			name: "Success - Valid Metadata",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, metaProp).
					Return(dbus.MakeVariant(map[string]dbus.Variant{
						"xesam:title":  dbus.MakeVariant("Stairway to Heaven"),
						"xesam:artist": dbus.MakeVariant([]string{"Led Zeppelin", "Ignored"}),
						"xesam:album":  dbus.MakeVariant("Led Zeppelin IV"),
						"mpris:artUrl": dbus.MakeVariant("file:///tmp/cover.jpg"),
						"mpris:length": dbus.MakeVariant(int64(480_000_000)),
					}), nil)
				m.EXPECT().GetProperty(testBus, objectPath, positionProp).
					Return(dbus.MakeVariant(int64(120_000_000)), nil)
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).
					Return(dbus.MakeVariant("Playing"), nil)
			},
			expected: domain.Snapshot{
				Title:    "Stairway to Heaven",
				Artist:   "Led Zeppelin",
				Album:    "Led Zeppelin IV",
				ArtURL:   "file:///tmp/cover.jpg",
				Position: 120,
				Duration: 480,
				Playing:  true,
			},
		},
		{
			name: "DBus Error - Player Not Running",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, gomock.Any()).
					Return(dbus.MakeVariant(""), fmt.Errorf("name has no owner")).Times(3)
			},
			expected: domain.Snapshot{},
		},
		{
			name: "Invalid Data - Metadata is Int not Map",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, metaProp).
					Return(dbus.MakeVariant(12345), nil)
				m.EXPECT().GetProperty(testBus, objectPath, positionProp).
					Return(dbus.MakeVariant("not a number"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).
					Return(dbus.MakeVariant([]string{"Playing"}), nil)
			},
			expected: domain.Snapshot{},
		},
		{
			name: "Artist as String (Non-compliant), Paused",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, metaProp).
					Return(dbus.MakeVariant(map[string]dbus.Variant{
						"xesam:artist": dbus.MakeVariant("Single Artist"),
						"mpris:length": dbus.MakeVariant(uint64(1_000_000)),
					}), nil)
				m.EXPECT().GetProperty(testBus, objectPath, positionProp).
					Return(dbus.MakeVariant(int64(-5)), nil)
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).
					Return(dbus.MakeVariant("Paused"), nil)
			},
			expected: domain.Snapshot{
				Artist:   "Single Artist",
				Duration: 1,
			},
		},
		{
			name: "Oversized Metadata - Cut at Rune Boundaries",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, metaProp).
					Return(dbus.MakeVariant(map[string]dbus.Variant{
						"xesam:title":  dbus.MakeVariant(strings.Repeat("a", 254) + "é"),
						"xesam:album":  dbus.MakeVariant(strings.Repeat("b", 300)),
						"mpris:artUrl": dbus.MakeVariant(strings.Repeat("c", 600)),
					}), nil)
				m.EXPECT().GetProperty(testBus, objectPath, positionProp).
					Return(dbus.MakeVariant(int64(0)), nil)
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).
					Return(dbus.MakeVariant("Stopped"), nil)
			},
			expected: domain.Snapshot{
				Title:  strings.Repeat("a", 254),
				Album:  strings.Repeat("b", domain.MaxTextBytes),
				ArtURL: strings.Repeat("c", domain.MaxURLBytes),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(mockClient)

			src := NewSource(zap.NewNop(), mockClient, "kew")
			got := src.Poll(context.Background())

			if got != tt.expected {
				t.Errorf("Snapshot mismatch:\nwant %+v\ngot  %+v", tt.expected, got)
			}
		})
	}
}

func TestTogglePlayback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	done := make(chan struct{})
	mockClient := mocks.NewMockDBusClient(ctrl)
	mockClient.EXPECT().Call(testBus, objectPath, "org.mpris.MediaPlayer2.Player.PlayPause").
		DoAndReturn(func(player, path, method string) error {
			close(done)
			return nil
		})

	NewSource(zap.NewNop(), mockClient, "kew").TogglePlayback()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout: PlayPause was not called")
	}
}

// TestDetectPlayer verifies the initial scan of DBus names.
func TestDetectPlayer(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*mocks.MockDBusClient)
		expectError bool
	}{
		{
			name: "Target present",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().ListNames().Return([]string{
					"org.freedesktop.DBus",
					"org.mpris.MediaPlayer2.spotify",
					"org.mpris.MediaPlayer2.kew",
				}, nil)
				m.EXPECT().GetNameOwner("org.mpris.MediaPlayer2.kew").Return(":1.100", nil)
			},
		},
		{
			name: "Target absent",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().ListNames().Return([]string{"org.mpris.MediaPlayer2.vlc"}, nil)
			},
		},
		{
			name: "Failure - ListNames fails",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().ListNames().Return(nil, fmt.Errorf("bus error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(mockClient)

			err := NewSource(zap.NewNop(), mockClient, "kew").detectPlayer()
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestMicrosToSeconds(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{int64(2_500_000), 2.5},
		{uint64(1_000_000), 1},
		{int32(500_000), 0.5},
		{uint32(0), 0},
		{float64(3_000_000), 3},
		{int64(-1), 0},
		{"123", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := microsToSeconds(tt.in); got != tt.want {
			t.Errorf("microsToSeconds(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
