package ui

import (
	"strings"
	"testing"
	"time"
)

func TestAnimationTypes(t *testing.T) {
	tests := []struct {
		name     string
		animType AnimationType
		expected int // minimum expected frames
	}{
		{"Feed animation has frames", AnimFeed, 3},
		{"Play animation has frames", AnimPlay, 4},
		{"Medicine animation has frames", AnimMedicine, 3},
		{"Clean animation has frames", AnimClean, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := AnimationTotalFrames(tt.animType)
			if frames < tt.expected {
				t.Errorf("Expected at least %d frames for %v, got %d", tt.expected, tt.animType, frames)
			}
		})
	}
}

func TestGetAnimationFrame(t *testing.T) {
	anim := Animation{Type: AnimFeed, Face: "🐸"}

	frame := GetAnimationFrame(anim)
	if !strings.Contains(frame, "🐸") {
		t.Errorf("frame should show the pet face, got %q", frame)
	}
	if strings.Contains(frame, facePlaceholder) {
		t.Error("placeholder left in frame")
	}

	anim.Frame = 100
	if got, want := GetAnimationFrame(anim), GetAnimationFrame(Animation{Type: AnimFeed, Face: "🐸", Frame: AnimationTotalFrames(AnimFeed) - 1}); got != want {
		t.Error("out-of-range frame should hold on the last frame")
	}

	if GetAnimationFrame(Animation{Type: AnimNone}) != "" {
		t.Error("AnimNone should have no frame")
	}
}

func TestGetAnimationFrame_DefaultFace(t *testing.T) {
	frame := GetAnimationFrame(Animation{Type: AnimClean})
	if !strings.Contains(frame, defaultFace) {
		t.Errorf("frame without a face should use %q, got %q", defaultFace, frame)
	}
}

func TestIsAnimationComplete(t *testing.T) {
	tests := []struct {
		name     string
		anim     Animation
		expected bool
	}{
		{"Animation at start is not complete", Animation{Type: AnimFeed, Frame: 0}, false},
		{"Animation at middle is not complete", Animation{Type: AnimFeed, Frame: 1}, false},
		{"Animation past end is complete", Animation{Type: AnimFeed, Frame: AnimationTotalFrames(AnimFeed)}, true},
		{"No animation is complete", Animation{Type: AnimNone, Frame: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsAnimationComplete(tt.anim)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestAnimationFrameDuration(t *testing.T) {
	if AnimationFrameDuration < 100*time.Millisecond {
		t.Error("Animation frame duration too short")
	}
	if AnimationFrameDuration > 500*time.Millisecond {
		t.Error("Animation frame duration too long")
	}
}

func TestAllAnimationsDrawThePet(t *testing.T) {
	for _, animType := range []AnimationType{AnimFeed, AnimPlay, AnimMedicine, AnimClean} {
		for i, frame := range AnimationFrames[animType] {
			if !strings.Contains(frame, facePlaceholder) {
				t.Errorf("animation %v frame %d does not draw the pet", animType, i)
			}
		}
	}
}
