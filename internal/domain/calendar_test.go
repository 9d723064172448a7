package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    WeekdayRule
		wantErr error
	}{
		{
			name: "valid open day with break",
			rule: WeekdayRule{
				Weekday:   time.Monday,
				IsOpen:    true,
				OpenTime:  "08:00",
				CloseTime: "18:00",
				Breaks: []BreakWindow{
					{StartTime: "12:00", EndTime: "13:00"},
				},
			},
		},
		{
			name: "closed day skips time checks",
			rule: WeekdayRule{Weekday: time.Sunday, IsOpen: false},
		},
		{
			name: "inverted working hours",
			rule: WeekdayRule{
				Weekday:   time.Monday,
				IsOpen:    true,
				OpenTime:  "18:00",
				CloseTime: "08:00",
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "break outside working hours",
			rule: WeekdayRule{
				Weekday:   time.Monday,
				IsOpen:    true,
				OpenTime:  "08:00",
				CloseTime: "18:00",
				Breaks: []BreakWindow{
					{StartTime: "07:00", EndTime: "09:00"},
				},
			},
			wantErr: ErrBreakOutsideHours,
		},
		{
			name: "overlapping breaks",
			rule: WeekdayRule{
				Weekday:   time.Monday,
				IsOpen:    true,
				OpenTime:  "08:00",
				CloseTime: "18:00",
				Breaks: []BreakWindow{
					{StartTime: "12:00", EndTime: "13:00"},
					{StartTime: "12:30", EndTime: "14:00"},
				},
			},
			wantErr: ErrBreaksOverlap,
		},
		{
			name: "inverted break",
			rule: WeekdayRule{
				Weekday:   time.Monday,
				IsOpen:    true,
				OpenTime:  "08:00",
				CloseTime: "18:00",
				Breaks: []BreakWindow{
					{StartTime: "13:00", EndTime: "12:00"},
				},
			},
			wantErr: ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeekdayRule_InBreak(t *testing.T) {
	rule := WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "08:00",
		CloseTime: "18:00",
		Breaks: []BreakWindow{
			{StartTime: "12:00", EndTime: "13:00"},
		},
	}

	assert.False(t, rule.InBreak("11:50"))
	assert.True(t, rule.InBreak("12:00"))
	assert.True(t, rule.InBreak("12:50"))
	assert.False(t, rule.InBreak("13:00"))
}

func TestExclusiveWindow_Validate(t *testing.T) {
	valid := ExclusiveWindow{Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: true}
	assert.NoError(t, valid.Validate())

	inverted := ExclusiveWindow{Weekday: time.Monday, StartTime: "14:00", EndTime: "13:00"}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidTimeRange)

	badTime := ExclusiveWindow{Weekday: time.Monday, StartTime: "25:00", EndTime: "26:00"}
	assert.Error(t, badTime.Validate())
}

func TestExclusiveWindow_Contains(t *testing.T) {
	w := ExclusiveWindow{Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00"}

	assert.False(t, w.Contains("12:50"))
	assert.True(t, w.Contains("13:00"))
	assert.True(t, w.Contains("13:50"))
	assert.False(t, w.Contains("14:00"))
}
