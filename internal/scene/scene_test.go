package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objview/internal/config"
)

const tol = 1e-5

func newDefaultState(t *testing.T) *State {
	t.Helper()
	s := New(config.Default())
	require.Len(t, s.Instances, 2)
	return s
}

func transform(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, "component %d of %v", i, got)
	}
}

func TestNewFromConfig(t *testing.T) {
	s := newDefaultState(t)

	assert.Equal(t, 0, s.Selected)
	assert.Equal(t, AxisNone, s.Rotation)
	assert.Equal(t, [3]float32{1, 0, 0}, s.Instances[0].Color)
	assert.Equal(t, [3]float32{1, 1, 0}, s.Instances[1].Color)
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, s.Instances[1].Offset)
	assert.Equal(t, float32(1), s.Instances[0].Scale)
	assert.Equal(t, config.DefaultModel, s.Instances[0].ModelPath)
}

func TestNewFillsNamesAndScale(t *testing.T) {
	cfg := config.Default()
	cfg.Objects = []config.ObjectConfig{{Model: "a.obj"}, {Model: "b.obj", Scale: 2}}

	s := New(cfg)
	require.Len(t, s.Instances, 2)
	assert.Equal(t, "object1", s.Instances[0].Name)
	assert.Equal(t, float32(1), s.Instances[0].Scale)
	assert.Equal(t, float32(2), s.Instances[1].Scale)
}

func TestMoveActionsAffectOnlySelected(t *testing.T) {
	s := newDefaultState(t)

	tests := []struct {
		action Action
		want   mgl32.Vec3
	}{
		{ActionMoveUp, mgl32.Vec3{0, 0.5, 0}},
		{ActionMoveDown, mgl32.Vec3{0, 0, 0}},
		{ActionMoveLeft, mgl32.Vec3{-0.5, 0, 0}},
		{ActionMoveRight, mgl32.Vec3{0, 0, 0}},
		{ActionMoveNear, mgl32.Vec3{0, 0, -0.5}},
		{ActionMoveFar, mgl32.Vec3{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			assert.True(t, s.Apply(Command{Action: tt.action}))
			assertVec(t, tt.want, s.Instances[0].Offset)
			assert.Equal(t, mgl32.Vec3{3, 0, 0}, s.Instances[1].Offset, "unselected instance moved")
		})
	}
}

func TestSelect(t *testing.T) {
	s := newDefaultState(t)

	assert.True(t, s.Apply(Command{Action: ActionSelect, Index: 1}))
	assert.Equal(t, 1, s.Selected)

	s.Apply(Command{Action: ActionMoveUp})
	assertVec(t, mgl32.Vec3{3, 0.5, 0}, s.Instances[1].Offset)
	assertVec(t, mgl32.Vec3{0, 0, 0}, s.Instances[0].Offset)

	assert.False(t, s.Apply(Command{Action: ActionSelect, Index: 2}), "out of range selection")
	assert.False(t, s.Apply(Command{Action: ActionSelect, Index: -1}))
	assert.Equal(t, 1, s.Selected)
}

func TestScaleClamped(t *testing.T) {
	s := newDefaultState(t)

	s.Apply(Command{Action: ActionScaleUp})
	assert.InDelta(t, 1.25, s.Instances[0].Scale, tol)

	for i := 0; i < 10; i++ {
		s.Apply(Command{Action: ActionScaleDown})
	}
	assert.InDelta(t, 0.25, s.Instances[0].Scale, tol)
	assert.Equal(t, float32(1), s.Instances[1].Scale)
}

func TestRotationAxis(t *testing.T) {
	s := newDefaultState(t)

	assert.True(t, s.Apply(Command{Action: ActionRotateY}))
	assert.Equal(t, AxisY, s.Rotation)
	assert.False(t, s.Apply(Command{Action: ActionRotateY}), "same axis twice")

	s.Apply(Command{Action: ActionRotateX})
	assert.Equal(t, AxisX, s.Rotation)
	s.Apply(Command{Action: ActionRotateZ})
	assert.Equal(t, AxisZ, s.Rotation)
}

func TestQuitAndNoneDoNotChangeState(t *testing.T) {
	s := newDefaultState(t)
	before := *s
	before.Instances = append([]Instance(nil), s.Instances...)

	assert.False(t, s.Apply(Command{Action: ActionQuit}))
	assert.False(t, s.Apply(Command{Action: ActionNone}))
	assert.Equal(t, before, *s)
}

func TestModelMatrixScaleThenTranslate(t *testing.T) {
	s := newDefaultState(t)
	s.Instances[1].Scale = 2

	// Scale * Translate: the offset is scaled too.
	got := transform(s.ModelMatrix(1, 0), mgl32.Vec3{0, 0, 0})
	assertVec(t, mgl32.Vec3{6, 0, 0}, got)

	got = transform(s.ModelMatrix(1, 0), mgl32.Vec3{1, 1, 1})
	assertVec(t, mgl32.Vec3{8, 2, 2}, got)
}

func TestModelMatrixRotatesOnlySelected(t *testing.T) {
	s := newDefaultState(t)
	s.Rotation = AxisZ
	angle := float32(math.Pi / 2)

	got := transform(s.ModelMatrix(0, angle), mgl32.Vec3{1, 0, 0})
	assertVec(t, mgl32.Vec3{0, 1, 0}, got)

	// Instance 1 is not selected and keeps its unrotated transform.
	got = transform(s.ModelMatrix(1, angle), mgl32.Vec3{1, 0, 0})
	assertVec(t, mgl32.Vec3{4, 0, 0}, got)

	s.Select(1)
	got = transform(s.ModelMatrix(1, angle), mgl32.Vec3{1, 0, 0})
	assertVec(t, mgl32.Vec3{3, 1, 0}, got)
	got = transform(s.ModelMatrix(0, angle), mgl32.Vec3{1, 0, 0})
	assertVec(t, mgl32.Vec3{1, 0, 0}, got)
}

func TestModelMatrixNoAxisIgnoresTime(t *testing.T) {
	s := newDefaultState(t)
	assert.Equal(t, s.ModelMatrix(0, 0), s.ModelMatrix(0, 12.5))
}

func TestInstancesUsing(t *testing.T) {
	cfg := config.Default()
	cfg.Objects = append(cfg.Objects, config.ObjectConfig{Model: "cube.obj"})
	s := New(cfg)

	assert.Equal(t, []int{0, 1}, s.InstancesUsing(config.DefaultModel))
	assert.Equal(t, []int{2}, s.InstancesUsing("cube.obj"))
	assert.Empty(t, s.InstancesUsing("missing.obj"))
}

func TestAxisStrings(t *testing.T) {
	assert.Equal(t, "x", AxisX.String())
	assert.Equal(t, "none", AxisNone.String())
	assert.Equal(t, "Axis(9)", Axis(9).String())
	assert.Equal(t, "scale-up", ActionScaleUp.String())
	assert.Equal(t, "Action(99)", Action(99).String())
}

func TestStatus(t *testing.T) {
	s := New(config.Default())
	assert.Equal(t, "left (1/2) rotate none scale 1.00", s.Status())

	s.Apply(Command{Action: ActionSelect, Index: 1})
	s.Apply(Command{Action: ActionRotateY})
	s.Apply(Command{Action: ActionScaleUp})
	assert.Equal(t, "right (2/2) rotate y scale 1.25", s.Status())

	empty := &State{}
	assert.Equal(t, "no objects", empty.Status())
}
