package models

// User is the authenticated storefront customer. Created on successful
// login/registration/OTP verification, destroyed on logout.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}
