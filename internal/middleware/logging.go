package middleware

import (
	"log"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, Status: 200}

		next.ServeHTTP(recorder, r)

		log.Printf("[%s] %s %s %d %s", r.Method, r.RequestURI, r.RemoteAddr, recorder.Status, time.Since(start))
	})
}
