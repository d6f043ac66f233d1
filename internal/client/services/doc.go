// Package services contains the application services of the terminal
// client: orders, messages, contact requests, reviews, e-mail verification
// and the admin panel.
//
// Services are thin: each call goes to the backend client and every failure
// is returned as *apierror.Response so callers only handle one error shape.
package services
