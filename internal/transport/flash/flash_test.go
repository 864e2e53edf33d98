package flash_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/task-management/internal/transport/flash"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const secret = "0123456789abcdef0123456789abcdef"

// latest keeps the last Set-Cookie per name, as a browser would.
func latest(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

func requestWith(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/manager/tasks", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

var _ = Describe("Store", func() {
	var store *flash.Store

	BeforeEach(func() {
		store = flash.NewStore(secret, false)
	})

	It("should deliver messages exactly once", func() {
		// Given
		rec := httptest.NewRecorder()
		req := requestWith(nil)
		Expect(store.Add(rec, req, flash.KindSuccess, "Task assigned successfully!")).To(Succeed())
		Expect(store.Add(rec, req, flash.KindError, "Task not found")).To(Succeed())

		// When
		next := httptest.NewRecorder()
		messages := store.Pop(next, requestWith(latest(rec)))

		// Then
		Expect(messages.Success).To(Equal([]string{"Task assigned successfully!"}))
		Expect(messages.Error).To(Equal([]string{"Task not found"}))

		again := store.Pop(httptest.NewRecorder(), requestWith(latest(next)))
		Expect(again.Empty()).To(BeTrue())
	})

	It("should return nothing without a cookie", func() {
		Expect(store.Pop(httptest.NewRecorder(), requestWith(nil)).Empty()).To(BeTrue())
	})

	It("should ignore a cookie signed with another secret", func() {
		rec := httptest.NewRecorder()
		other := flash.NewStore("ffffffffffffffffffffffffffffffff", false)
		Expect(other.Add(rec, requestWith(nil), flash.KindSuccess, "forged")).To(Succeed())

		messages := store.Pop(httptest.NewRecorder(), requestWith(latest(rec)))

		Expect(messages.Empty()).To(BeTrue())
	})

	It("should mark the cookie http only", func() {
		rec := httptest.NewRecorder()
		Expect(store.Add(rec, requestWith(nil), flash.KindSuccess, "ok")).To(Succeed())

		cookie := rec.Result().Cookies()[0]
		Expect(cookie.Name).To(Equal(flash.SessionName))
		Expect(cookie.HttpOnly).To(BeTrue())
	})
})
