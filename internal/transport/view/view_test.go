package view_test

import (
	"bytes"
	"time"

	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/task"
	"github.com/frahmantamala/task-management/internal/transport/flash"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/frahmantamala/task-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Renderer", func() {
	var renderer *view.Renderer

	BeforeEach(func() {
		var err error
		renderer, err = view.New()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should parse every page", func() {
		for _, page := range []string{
			"user/login", "user/signup",
			"admin/dashboard", "admin/users",
			"manager/dashboard", "manager/employees", "manager/assign_task",
			"employee/dashboard",
			"shared/tasks", "shared/profile",
		} {
			Expect(renderer.Has(page)).To(BeTrue(), page)
		}
	})

	It("should fail for an unknown page", func() {
		var buf bytes.Buffer
		Expect(renderer.Render(&buf, "admin/nope", nil)).NotTo(Succeed())
		Expect(buf.Len()).To(BeZero())
	})

	It("should render flash messages escaped", func() {
		var buf bytes.Buffer

		err := renderer.Render(&buf, "user/login", view.Data{
			"Flash": flash.Messages{Error: []string{"<script>x</script>"}},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("&lt;script&gt;"))
		Expect(buf.String()).NotTo(ContainSubstring("<script>x"))
	})

	It("should render a manager's task list", func() {
		// Given
		deadline := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		tasks := []*task.Task{{
			ID:       "t-1",
			Title:    "Write report",
			Priority: task.PriorityHigh,
			Deadline: &deadline,
			Status:   task.StatusPending,
			Assignee: &task.Person{ID: "e-1", Name: "Eve", Email: "eve@example.com"},
			Comments: []task.Comment{{ID: "c-1", Text: "on it", Author: &task.Person{Name: "Eve"}, CreatedAt: deadline}},
		}}

		// When
		var buf bytes.Buffer
		err := renderer.Render(&buf, "shared/tasks", view.Data{
			"Identity":  identity.Identity{UserID: "m-1", Name: "Alice", Role: identity.RoleManager},
			"Flash":     flash.Messages{},
			"Tasks":     tasks,
			"Statuses":  task.Statuses,
			"BasePath":  "/manager",
			"IsManager": true,
			"Now":       deadline.Add(72 * time.Hour),
		})

		// Then
		Expect(err).NotTo(HaveOccurred())
		html := buf.String()
		Expect(html).To(ContainSubstring("Write report"))
		Expect(html).To(ContainSubstring(`action="/manager/tasks/t-1/status"`))
		Expect(html).To(ContainSubstring(`action="/manager/tasks/t-1/comments"`))
		Expect(html).To(ContainSubstring("Eve (eve@example.com)"))
		Expect(html).To(ContainSubstring("overdue"))
		Expect(html).To(ContainSubstring("2024-01-02"))
	})

	It("should render the profile without the password hash", func() {
		age := 30
		var buf bytes.Buffer

		err := renderer.Render(&buf, "shared/profile", view.Data{
			"Identity": identity.Identity{UserID: "e-1", Name: "Eve", Role: identity.RoleEmployee},
			"User":     &user.User{ID: "e-1", Name: "Eve", Email: "eve@example.com", PasswordHash: "$2a$10$secrethash", Role: identity.RoleEmployee, Age: &age},
			"Action":   "/employee/profile",
			"Extended": true,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring(`value="30"`))
		Expect(buf.String()).NotTo(ContainSubstring("secrethash"))
	})
})
