package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCleaningKind(t *testing.T) {
	assert.False(t, (&CleaningTask{}).HasCleaningKind())
	assert.True(t, (&CleaningTask{VisualCleaning: true}).HasCleaningKind())
	assert.True(t, (&CleaningTask{WindowsCurtainsCleaning: true}).HasCleaningKind())
}

func TestCleaningKinds(t *testing.T) {
	task := &CleaningTask{
		VisualCleaning:          true,
		BasicRoomCleaning:       true,
		WindowsCurtainsCleaning: true,
	}

	assert.Equal(
		t,
		[]string{"Sichtreinigung", "Zimmer Grundreinigung", "Fenster und Gardinen"},
		task.CleaningKinds(),
	)

	assert.Empty(t, (&CleaningTask{}).CleaningKinds())
}
