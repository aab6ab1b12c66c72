package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultStateURL = "https://auth.robokassa.ru/Merchant/WebService/Service.asmx/OpStateExt"

// Коды состояния операции OpStateExt
const (
	robokassaStateCancelled = 10
	robokassaStatePaid      = 100
)

type RobokassaConfig struct {
	MerchantLogin string
	Password1     string
	Password2     string
	BaseURL       string
	StateURL      string
	Currency      string
	Culture       string
	IsTest        bool
	Timeout       time.Duration
}

type RobokassaProvider struct {
	cfg    RobokassaConfig
	client *http.Client
}

func NewRobokassaProvider(cfg RobokassaConfig) *RobokassaProvider {
	if cfg.StateURL == "" {
		cfg.StateURL = defaultStateURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &RobokassaProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateCheckout создаёт ссылку на оплату. Сеть не нужна, ссылка подписывается локально.
func (r *RobokassaProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if r.cfg.MerchantLogin == "" || r.cfg.Password1 == "" {
		return nil, ErrProviderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invID := strconv.FormatInt(req.InvID, 10)
	params := url.Values{}
	params.Set("MrchLogin", r.cfg.MerchantLogin)
	params.Set("OutSum", FormatAmount(req.Amount))
	params.Set("InvId", invID)
	params.Set("Desc", req.Description)
	params.Set("SignatureValue", r.checkoutSignature(invID, req.Amount))
	if req.Email != "" {
		params.Set("Email", req.Email)
	}
	if r.cfg.Currency != "" {
		params.Set("IncCurrLabel", r.cfg.Currency)
	}
	if r.cfg.Culture != "" {
		params.Set("Culture", r.cfg.Culture)
	}
	if r.cfg.IsTest {
		params.Set("IsTest", "1")
	}

	return &Checkout{URL: fmt.Sprintf("%s?%s", r.cfg.BaseURL, params.Encode())}, nil
}

type opStateResponse struct {
	Result struct {
		Code        int    `xml:"Code"`
		Description string `xml:"Description"`
	} `xml:"Result"`
	State struct {
		Code int `xml:"Code"`
	} `xml:"State"`
}

// VerifySession запрашивает состояние счета у Robokassa (OpStateExt)
func (r *RobokassaProvider) VerifySession(ctx context.Context, invID int64) (*Verification, error) {
	if r.cfg.MerchantLogin == "" || r.cfg.Password2 == "" {
		return nil, ErrProviderNotConfigured
	}

	id := strconv.FormatInt(invID, 10)
	params := url.Values{}
	params.Set("MerchantLogin", r.cfg.MerchantLogin)
	params.Set("InvoiceID", id)
	params.Set("Signature", md5Upper(fmt.Sprintf("%s:%s:%s", r.cfg.MerchantLogin, id, r.cfg.Password2)))
	if r.cfg.IsTest {
		params.Set("IsTest", "1")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.StateURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}

	var state opStateResponse
	if err := xml.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode operation state: %w", err)
	}
	if state.Result.Code != 0 {
		// 3 - счет не найден: оплата еще не начиналась
		if state.Result.Code == 3 {
			return &Verification{Status: SessionStatusPending}, nil
		}
		return nil, fmt.Errorf("%w: code %d %s", ErrProviderRejected, state.Result.Code, state.Result.Description)
	}

	switch state.State.Code {
	case robokassaStatePaid:
		return &Verification{Success: true, Status: SessionStatusPaid}, nil
	case robokassaStateCancelled:
		return &Verification{Status: SessionStatusCancelled}, nil
	default:
		return &Verification{Status: SessionStatusPending}, nil
	}
}

// VerifyResult проверяет подпись от Robokassa (используется при callback'ах)
func (r *RobokassaProvider) VerifyResult(n ResultNotification) bool {
	if r.cfg.Password2 == "" || n.Signature == "" {
		return false
	}
	expected := md5Upper(fmt.Sprintf("%s:%d:%s", n.OutSum, n.InvID, r.cfg.Password2))
	return strings.EqualFold(expected, n.Signature)
}

// checkoutSignature формирует MD5-подпись для оплаты
func (r *RobokassaProvider) checkoutSignature(invID string, amount float64) string {
	return md5Upper(fmt.Sprintf("%s:%s:%s:%s", r.cfg.MerchantLogin, FormatAmount(amount), invID, r.cfg.Password1))
}

// FormatAmount - формат суммы, который подписывается и передается провайдеру
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func md5Upper(plain string) string {
	hash := md5.Sum([]byte(plain))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}
