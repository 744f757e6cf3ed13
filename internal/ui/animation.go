package ui

import (
	"strings"
	"time"
)

// AnimationType represents the type of action animation
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimMedicine
	AnimClean
)

// Animation holds the current animation state. Face is the pet emoji drawn
// into every frame.
type Animation struct {
	Type      AnimationType
	Frame     int
	Face      string
	StartTime time.Time
}

// facePlaceholder is replaced with the pet's face when a frame is drawn.
const facePlaceholder = "@"

// AnimationFrames holds the frames for each animation type.
var AnimationFrames = map[AnimationType][]string{
	AnimFeed: {
		`
   🍎
     \
      @
`,
		`

   🍎→@

`,
		`

     @
   *nom*
`,
		`

     @
   *munch*
`,
	},
	AnimPlay: {
		`
  🦋        @
`,
		`
     🦋     @
`,
		`
        🦋  @
`,
		`
          🦋@
              *pounce*
`,
		`
            @
              *caught!*
`,
	},
	AnimMedicine: {
		`
  💊       @
`,
		`
     💊    @
`,
		`
       💊→ @
`,
		`
           @
          ✨
`,
	},
	AnimClean: {
		`
  🧽    💩 @
`,
		`
     🧽 💩 @
`,
		`
       🧽  @
      *scrub*
`,
		`
           @
        ✨ fresh ✨
`,
	},
}

// AnimationFrameDuration is how long each frame displays
const AnimationFrameDuration = 200 * time.Millisecond

// GetAnimationFrame returns the current frame with the pet's face drawn in.
// Frames past the end hold on the last one.
func GetAnimationFrame(anim Animation) string {
	frames := AnimationFrames[anim.Type]
	if len(frames) == 0 {
		return ""
	}
	frame := frames[min(anim.Frame, len(frames)-1)]
	face := anim.Face
	if face == "" {
		face = defaultFace
	}
	return strings.ReplaceAll(frame, facePlaceholder, face)
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	return anim.Frame >= len(AnimationFrames[anim.Type])
}

// AnimationTotalFrames returns the number of frames for an animation type
func AnimationTotalFrames(animType AnimationType) int {
	return len(AnimationFrames[animType])
}
