package web

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
)

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	exercise := "6.1"
	content := &models.Content{
		ID: "c1", ClassLevel: 10, Medium: models.MediumEnglish, Subject: "Mathematics",
		ChapterName: "Triangles", Exercise: &exercise, QuestionNumber: "2",
		VideoID: "abc", TextSolution: "<b>AA</b>", ImageRef: "/uploads/q.png",
		UpdatedAt: time.Now(),
	}
	user := session.Snapshot{Mobile: "9876543210", IsProfileComplete: true,
		Profile: models.Profile{Name: "Asha", ClassLevel: 10, Medium: models.MediumEnglish}}
	account := &models.User{Mobile: "9876543210", Profile: user.Profile}

	base := func(extra map[string]any) map[string]any {
		data := map[string]any{"title": "Test", "loggedIn": true, "user": user}
		for k, v := range extra {
			data[k] = v
		}
		return data
	}
	formOptions := map[string]any{
		"classLevels": models.ClassLevels(),
		"media":       models.Media,
		"subjects":    []models.Subject{{Name: "Mathematics", ExerciseOrganized: true}},
	}
	with := func(a, b map[string]any) map[string]any {
		for k, v := range b {
			a[k] = v
		}
		return a
	}

	pages := map[string]map[string]any{
		"login.html":             {"title": "Login", "error": "Invalid Mobile or Password"},
		"register.html":          {"title": "Register", "form": &dto.RegisterRequest{StudentClass: 10}, "classLevels": models.ClassLevels()},
		"complete_profile.html":  base(map[string]any{"form": dto.ProfileRequest{Medium: "Hindi"}, "classLevels": models.ClassLevels(), "media": models.Media}),
		"profile.html":           base(map[string]any{"account": account}),
		"admin_profile.html":     base(map[string]any{"account": account, "isAdmin": true}),
		"student_dashboard.html": base(map[string]any{"subjects": []models.Subject{{Name: "Mathematics"}}}),
		"chapters.html":          base(map[string]any{"subject": "Mathematics", "chapters": []string{"Real Numbers"}}),
		"exercises.html":         base(map[string]any{"subject": "Mathematics", "chapter": "Triangles", "exercises": []string{"6.1"}}),
		"questions.html":         base(map[string]any{"subject": "Science", "chapter": "Light", "questions": []models.Content{*content}}),
		"solution.html":          base(map[string]any{"content": content, "backURL": "/content/Mathematics/Triangles/6.1"}),
		"forgot_password.html":   {"title": "Forgot", "enabled": true},
		"reset_password.html":    {"title": "Reset", "token": "tok"},
		"change_password.html":   base(map[string]any{"success": "Password changed successfully!"}),
		"contact.html":           base(nil),
		"not_found.html":         {"title": "Not found"},
		"error.html":             {"title": "Error", "message": "Something went wrong"},
		"admin_dashboard.html":   with(base(map[string]any{"isAdmin": true, "form": dto.ContentForm{ClassLevel: 10, Medium: "English"}, "duplicates": 1}), formOptions),
		"add_solution.html":      base(map[string]any{"isAdmin": true, "questions": []models.Content{*content}, "page": helpers.NewPageInfo(1, 1, 20)}),
		"database.html":          base(map[string]any{"isAdmin": true, "questions": []models.Content{}, "page": helpers.NewPageInfo(0, 1, 20)}),
		"edit_solution.html": with(base(map[string]any{
			"isAdmin": true, "content": content, "form": dto.ContentFormOf(content),
			"dataMap": map[models.Medium]map[string][]string{models.MediumEnglish: {"Triangles": {"6.1"}}, models.MediumHindi: {}},
		}), formOptions),
	}

	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
			assert.Contains(t, buf.String(), "</html>")
		})
	}
}

func TestChapterLinksEscaped(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "chapters.html", map[string]any{
		"title":    "Mathematics",
		"subject":  "Mathematics",
		"chapters": []string{"Real Numbers", "<script>"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "/content/Mathematics/Real%20Numbers")
	assert.False(t, strings.Contains(out, "<script>"))
}

func TestStaticAssets(t *testing.T) {
	f, err := Static().Open("style.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
