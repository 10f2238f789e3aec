// Package checkin issues short-lived member passes rendered as QR codes and verifies them at the front desk.
package checkin

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/golang-jwt/jwt/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/core"
)

const (
	audience = "gym-checkin"
	qrSize   = 300
)

var ErrInvalidPass = errors.New("invalid or expired check-in pass")

type MemberLookup interface {
	GetMember(ctx context.Context, id string) (core.Member, error)
}

type Pass struct {
	MemberID  string    `json:"memberId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Result struct {
	MemberID    string    `json:"memberId"`
	MemberName  string    `json:"memberName"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

type claims struct {
	MemberID string `json:"mid"`
	jwt.RegisteredClaims
}

type Service struct {
	members MemberLookup
	secret  []byte
	window  time.Duration
	Now     func() time.Time
}

func NewService(members MemberLookup, secret string, window time.Duration) *Service {
	if window <= 0 {
		window = time.Minute
	}
	return &Service{members: members, secret: []byte(secret), window: window, Now: time.Now}
}

// Issue signs a pass for an active member valid for one window.
func (s *Service) Issue(ctx context.Context, memberID string) (Pass, error) {
	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return Pass{}, err
	}
	if member.Status != core.MemberActive {
		return Pass{}, apperr.InvalidState("member", string(member.Status), "check in")
	}
	now := s.Now()
	expires := now.Add(s.window)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		MemberID: member.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Pass{}, err
	}
	return Pass{MemberID: member.ID, Token: signed, ExpiresAt: expires}, nil
}

// QR renders the pass token as a PNG QR code.
func (s *Service) QR(pass Pass) ([]byte, error) {
	code, err := qr.Encode(pass.Token, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Verify accepts a scanned token if it is unexpired and the member is still active.
func (s *Service) Verify(ctx context.Context, token string) (Result, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidPass
		}
		return s.secret, nil
	}, jwt.WithAudience(audience), jwt.WithTimeFunc(s.Now), jwt.WithExpirationRequired())
	if err != nil || c.MemberID == "" {
		return Result{}, ErrInvalidPass
	}
	member, err := s.members.GetMember(ctx, c.MemberID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Result{}, ErrInvalidPass
	}
	if err != nil {
		return Result{}, err
	}
	if member.Status != core.MemberActive {
		return Result{}, apperr.InvalidState("member", string(member.Status), "check in")
	}
	return Result{MemberID: member.ID, MemberName: member.FullName, CheckedInAt: s.Now().UTC()}, nil
}
