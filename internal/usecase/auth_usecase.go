package usecase

import (
	"context"
	"time"

	"kariakita/internal/domain/model"
)

// JWTを発行する約束（infra/token.JWTIssuer が満たす）
type AccessTokenIssuer interface {
	Issue(userID string, role model.Role, sessionID string, now time.Time) (token string, expiresAt time.Time, err error)
}

// handlerからusecaseに渡す入力
type LoginInput struct {
	Name  string
	Email string
	// 既存のセッション（カート）を引き継ぐ場合だけ入る
	SessionID string
}

type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	SessionID   string `json:"session_id"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// 簡易ログイン。本人確認はしない（デモ用）。
type AuthUsecase struct {
	accounts *AccountUsecase
	issuer   AccessTokenIssuer
	idGen    IDGenerator
	clock    Clock
}

func NewAuthUsecase(accounts *AccountUsecase, issuer AccessTokenIssuer, idGen IDGenerator, clock Clock) *AuthUsecase {
	return &AuthUsecase{
		accounts: accounts,
		issuer:   issuer,
		idGen:    idGen,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := u.accounts.SignIn(ctx, in.Name, in.Email)
	if err != nil {
		return LoginOutput{}, err
	}

	//カートのセッションID（sid claim）
	sid := in.SessionID
	if sid == "" {
		sid = u.idGen.NewID()
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(user.ID, user.Role, sid, now)
	if err != nil {
		return LoginOutput{}, &Error{Kind: ErrInternal, Message: "issue token", Err: err}
	}

	return LoginOutput{
		User: user,
		Token: JwtAccessToken{
			AccessToken: token,
			ExpiresIn:   int(exp.Sub(now).Seconds()),
			SessionID:   sid,
		},
	}, nil
}

// ログイン中の会員
func (u *AuthUsecase) Me(ctx context.Context, userID string) (model.User, error) {
	return u.accounts.FindByID(ctx, userID)
}
