package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"route-backend/internal/config"
	"route-backend/internal/models"
)

// Client talks to the Microsoft identity platform (authorization-code and
// refresh grants) and to the OneDrive endpoints of the Graph API. It holds
// no token state; callers pass the access token per drive call.
type Client struct {
	clientID     string
	clientSecret string
	authority    string
	redirectURI  string
	scopes       []string
	graphBaseURL string

	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		clientID:     cfg.Microsoft.ClientID,
		clientSecret: cfg.Microsoft.ClientSecret,
		authority:    strings.TrimSuffix(cfg.Microsoft.Authority, "/"),
		redirectURI:  cfg.Microsoft.RedirectURI,
		scopes:       cfg.Microsoft.Scopes,
		graphBaseURL: strings.TrimSuffix(cfg.Microsoft.GraphBaseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthCodeURL builds the provider authorization URL for the redirect leg.
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_mode", "query")
	q.Set("scope", strings.Join(c.scopes, " "))
	q.Set("state", state)
	return c.authority + "/oauth2/v2.0/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for a token pair.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)
	return c.tokenRequest(ctx, form)
}

// Refresh runs the refresh grant. A rejected refresh token surfaces as an
// AuthError; the interactive flow has to be restarted in that case.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.tokenRequest(ctx, form)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*models.TokenPair, error) {
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", strings.Join(c.scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authority+"/oauth2/v2.0/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var providerErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		detail := string(body)
		if json.Unmarshal(body, &providerErr) == nil && providerErr.ErrorDescription != "" {
			detail = providerErr.ErrorDescription
		}
		return nil, &AuthError{Detail: detail}
	}

	var pair models.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &pair, nil
}

// driveItem is the subset of a Graph drive item the client reads.
type driveItem struct {
	Name        string `json:"name"`
	DownloadURL string `json:"@microsoft.graph.downloadUrl"`
}

// DownloadByName searches the drive for the base name of filePath and
// downloads the first match via its short-lived download reference.
func (c *Client) DownloadByName(ctx context.Context, accessToken, filePath string) ([]byte, error) {
	fileName := path.Base(filePath)

	searchURL := fmt.Sprintf("%s/me/drive/root/search(q='%s')",
		c.graphBaseURL, url.PathEscape(fileName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result struct {
		Value []driveItem `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(result.Value) == 0 {
		return nil, &NotFoundError{Name: fileName}
	}

	dlReq, err := http.NewRequestWithContext(ctx, http.MethodGet, result.Value[0].DownloadURL, nil)
	if err != nil {
		return nil, err
	}

	dlResp, err := c.httpClient.Do(dlReq)
	if err != nil {
		return nil, fmt.Errorf("file download: %w", err)
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		return nil, statusError(dlResp)
	}
	return io.ReadAll(dlResp.Body)
}

// Upload writes content to a path-addressed drive location. A bare file
// name targets root:/name, a path with a parent directory targets
// root:{dir}/name; the two address forms are not interchangeable.
func (c *Client) Upload(ctx context.Context, accessToken, filePath string, content []byte) error {
	fileName := path.Base(filePath)
	dir := path.Dir(filePath)

	var uploadURL string
	if dir != "" && dir != "/" && dir != "." {
		uploadURL = fmt.Sprintf("%s/me/drive/root:%s/%s:/content", c.graphBaseURL, dir, fileName)
	} else {
		uploadURL = fmt.Sprintf("%s/me/drive/root:/%s:/content", c.graphBaseURL, fileName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("file upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	return nil
}

// CreateFolder creates a folder if it does not already exist. A name
// conflict is treated as success so callers can ensure a folder before
// every upload.
func (c *Client) CreateFolder(ctx context.Context, accessToken, folderPath string) error {
	folderName := path.Base(folderPath)
	parent := path.Dir(folderPath)

	var createURL string
	if parent != "" && parent != "/" && parent != "." {
		createURL = fmt.Sprintf("%s/me/drive/root:%s:/children", c.graphBaseURL, parent)
	} else {
		createURL = c.graphBaseURL + "/me/drive/root/children"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"name":                              folderName,
		"folder":                            map[string]interface{}{},
		"@microsoft.graph.conflictBehavior": "fail",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return nil
	}
	return statusError(resp)
}

// statusError maps a non-success Graph response to the error taxonomy:
// 401/403 mean the credential is bad, anything else is an upstream fault.
// The response body rides along for diagnosis.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := string(body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Detail: detail}
	}
	return &UpstreamError{StatusCode: resp.StatusCode, Detail: detail}
}
