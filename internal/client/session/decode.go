package session

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser(jwt.WithJSONNumber())

// DecodeUser reads the identity claims of an access token without checking
// its signature or expiry.
func DecodeUser(access string) (*models.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	u := &models.User{
		ID:            claimString(claims, "user_id"),
		Email:         claimString(claims, "email"),
		FirstName:     claimString(claims, "first_name"),
		LastName:      claimString(claims, "last_name"),
		ProfileImgURL: claimString(claims, "profile_img_url"),
	}
	if u.ID == "" {
		u.ID = claimString(claims, "id")
	}
	return u, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
