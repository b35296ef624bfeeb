package librus_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/stretchr/testify/require"
)

func TestWeekKeepsDayOrder(t *testing.T) {
	week := librus.Week{
		{Day: "Wednesday", Lessons: []*librus.Lesson{{Subject: "Chemia", Canceled: true}}},
		{Day: "Monday"},
	}

	encoded, err := json.Marshal(week)
	require.NoError(t, err)
	require.Equal(t, `{"Wednesday":[{"subject":"Chemia","teacher":"","room":"","canceled":true}],"Monday":[]}`, string(encoded))
}

func TestEmptyWeek(t *testing.T) {
	encoded, err := json.Marshal(librus.Timetable{Hours: []string{}, Table: librus.Week{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"hours":[],"table":{}}`, string(encoded))
}

func TestAPIErrorUnwrap(t *testing.T) {
	require.ErrorIs(t, &librus.APIError{StatusCode: 404, Path: "Attendances/1"}, librus.ErrNotFound)
	require.NotErrorIs(t, &librus.APIError{StatusCode: 500, Path: "Grades"}, librus.ErrNotFound)
	require.EqualError(t, &librus.APIError{StatusCode: 500, Path: "Grades"}, "librus Grades: unexpected status 500")
}
