package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// CodeDuplicateWithAdmin is returned by the admin backend when the transfer
// was already recorded on its side. Treated as success, tagged duplicate.
const CodeDuplicateWithAdmin = "DUPLICATE_WITH_ADMIN_RECORD"

const (
	CategoryMember    = "member"
	CategoryNonMember = "non_member"
)

type BankAccount struct {
	ID        int64  `json:"id"`
	AccountNo string `json:"account_no"`
	NameTH    string `json:"name_th"`
	NameEN    string `json:"name_en"`
	BankCode  string `json:"bank_code"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type DepositRequest struct {
	BankAccountID int64           `json:"bank_account_id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	SlipRef       string          `json:"slip_ref"`
	Note          string          `json:"note"`
}

type DepositResult struct {
	Success   bool
	Duplicate bool
	Message   string
}

type WithdrawRequest struct {
	UserID  int64           `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	SlipRef string          `json:"slip_ref"`
	Note    string          `json:"note"`
}

// API is the slice of the admin backend the engine calls.
type API interface {
	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	SearchUsers(ctx context.Context, name, category string) ([]User, error)
	Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	FirstDeposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	WithdrawCreditBack(ctx context.Context, req WithdrawRequest) error
}

// Client talks to one tenant's admin backend with one bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login authenticates against the admin backend. Called without a token.
func (c *Client) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	payload := map[string]string{"username": username, "password": password}
	var out loginResponse
	if err := c.post(ctx, "/api/v1/login", payload, &out); err != nil {
		return "", time.Time{}, err
	}
	if out.Token == "" {
		return "", time.Time{}, fmt.Errorf("login returned empty token")
	}
	expiry := time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	if out.ExpiresIn <= 0 {
		expiry = time.Now().Add(12 * time.Hour)
	}
	return out.Token, expiry, nil
}

func (c *Client) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	var out struct {
		Data []BankAccount `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/bank-accounts", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) SearchUsers(ctx context.Context, name, category string) ([]User, error) {
	q := url.Values{}
	q.Set("search", name)
	q.Set("category", category)
	var out struct {
		Data []User `json:"data"`
	}
	if err := c.get(ctx, "/api/v1/users", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error) {
	return c.deposit(ctx, "/api/v1/deposit-records", req)
}

func (c *Client) FirstDeposit(ctx context.Context, req DepositRequest) (*DepositResult, error) {
	return c.deposit(ctx, "/api/v1/first-time-deposit-records", req)
}

func (c *Client) deposit(ctx context.Context, path string, req DepositRequest) (*DepositResult, error) {
	var out struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	if out.Code == CodeDuplicateWithAdmin {
		return &DepositResult{Success: true, Duplicate: true, Message: out.Message}, nil
	}
	if !out.Success {
		return nil, fmt.Errorf("deposit rejected: %s", out.Message)
	}
	return &DepositResult{Success: true, Message: out.Message}, nil
}

func (c *Client) WithdrawCreditBack(ctx context.Context, req WithdrawRequest) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/v1/withdraw-credit-back", req, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("withdraw credit back rejected: %s", out.Message)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("admin backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("admin backend status %s: %s", resp.Status, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode admin response: %w", err)
	}
	return nil
}
