package rest_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andarie1/task-manager/adapters/rest"
	"github.com/andarie1/task-manager/core"
)

func TestNewPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tasks/?status=new&limit=2&offset=2", nil)
	l := core.List[core.Task]{
		Items: []core.Task{{ID: 3}, {ID: 4}},
		Count: 5,
		Page:  core.Page{Limit: 2, Offset: 2},
	}

	out := rest.NewPage(r, l, rest.TaskToOut)
	assert.Equal(t, 5, out.Count)
	assert.Len(t, out.Results, 2)
	if assert.NotNil(t, out.Next) && assert.NotNil(t, out.Previous) {
		assert.Equal(t, "/api/tasks/?limit=2&offset=4&status=new", *out.Next)
		assert.Equal(t, "/api/tasks/?limit=2&status=new", *out.Previous)
	}
	assert.Equal(t, []int64{}, out.Results[0].Categories)
}

func TestNewPage_Single(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/subtasks/", nil)
	out := rest.NewPage(r, core.List[core.SubTask]{Page: core.Page{Limit: 5}}, rest.SubTaskToOut)

	assert.Nil(t, out.Next)
	assert.Nil(t, out.Previous)
	assert.NotNil(t, out.Results)
}

func TestValidate(t *testing.T) {
	assert.Nil(t, rest.Validate(&rest.CategoryIn{Name: "work"}))

	fields := rest.Validate(&rest.RegisterIn{Username: "al", Email: "x", Password: "password1", Password2: "password2"})
	assert.Equal(t, map[string]string{
		"username":  "ensure this field has at least 3 characters",
		"email":     "enter a valid email address",
		"password2": "passwords do not match",
	}, fields)

	bad := core.TaskStatus("later")
	fields = rest.Validate(&rest.TaskIn{Title: "t", Status: &bad, Categories: []int64{1, 0}})
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "categories[1]")
}

func TestTaskPatchIn_ToPatch(t *testing.T) {
	cases := map[string]struct {
		body          string
		clearDeadline bool
		hasDeadline   bool
		categories    []int64
	}{
		"absent":        {body: `{}`},
		"null_deadline": {body: `{"deadline": null}`, clearDeadline: true},
		"deadline":      {body: `{"deadline": "2030-01-02T03:04:05Z"}`, hasDeadline: true},
		"detach_all":    {body: `{"categories": []}`, categories: []int64{}},
		"categories":    {body: `{"categories": [2, 3]}`, categories: []int64{2, 3}},
	}

	for name, tc := range cases {
		var in rest.TaskPatchIn
		assert.NoError(t, json.Unmarshal([]byte(tc.body), &in), name)

		p := in.ToPatch()
		assert.Equal(t, tc.clearDeadline, p.ClearDeadline, name)
		assert.Equal(t, tc.hasDeadline, p.Deadline != nil, name)
		assert.Equal(t, tc.categories, p.CategoryIDs, name)
	}
}
