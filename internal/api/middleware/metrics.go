package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const unmatchedRoute = "unmatched"

// HTTPRecorder принимает наблюдения о HTTP запросах
type HTTPRecorder interface {
	ObserveHTTP(method, route, status string, d time.Duration)
}

// MetricsMiddleware пишет счётчик и латентность запросов.
// В метку route попадает шаблон пути, а не конкретный URL.
func MetricsMiddleware(recorder HTTPRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newStatusRecorder(w)

			next.ServeHTTP(rw, r)

			recorder.ObserveHTTP(r.Method, routeTemplate(r), strconv.Itoa(rw.status), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
