package api

import (
	"context"
	"crypto/tls"
	"time"

	"go.uber.org/zap"

	"github.com/imroc/req/v3"

	h "github.com/subterra/gpr-client/internal/client/api/helpers"
	"github.com/subterra/gpr-client/internal/client/config"
	"github.com/subterra/gpr-client/pkg/log"
)

type RestAPI struct {
	client *req.Client

	// Store these for later usage
	conf     *config.Manager
	cm       *config.ApiConfigManager
	clientCM *config.ClientConfigManager
}

func NewRestAPI(conf *config.Manager, debug bool) (*RestAPI, error) {
	a := RestAPI{}
	a.conf = conf

	a.cm = conf.Api()
	a.clientCM = conf.Client()

	//set up the connection
	a.client = req.C()

	if debug {
		a.client.EnableDebugLog()
	}

	// Get a copy of the api config
	apiConf := a.cm.C()

	// Set up the api base-url
	a.client.SetBaseURL(apiConf.Url)

	// Set up the certificate and authentication
	rootCert := apiConf.RootCertificate
	if len(rootCert) > 0 {
		a.client.SetRootCertsFromFile(rootCert)
	}

	if apiConf.Auth.Basic != nil {
		username, password := apiConf.Auth.Basic.Credentials()
		log.Info("using basic auth mechanism", zap.String("username", username))
		a.client.SetCommonBasicAuth(username, password)
	} else {
		log.Warn("no api authentication scheme specified")
	}

	if apiConf.AllowInsecure {
		// Skip TLS verification upon request
		a.client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

		log.Warn("!WARNING WARNING WARNING! DISABLED TLS CERTIFICATE VERIFICATION! !WARNING WARNING WARNING!")
	}

	// Some connection configurations
	a.client.SetTimeout(RequestTimeout)
	a.client.SetCommonRetryCount(3)
	a.client.SetCommonRetryBackoffInterval(RequestRetryMinWaitTime, RequestRetryMaxWaitTime)

	return &a, nil
}

func (r *RestAPI) GetBaseURL() string {
	if r.client == nil {
		log.Panic("no client, cant get base url")
	}

	return r.client.BaseURL
}

// GetClient Use this for tests to set the transport to mock
func (r *RestAPI) GetClient() *req.Client {
	return r.client
}

// PutSensorUpdate pushes the heartbeat status to the project server.
func (r *RestAPI) PutSensorUpdate(status SensorStatus) error {
	resp, err := r.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(status).
		Put("sensors/update/" + r.clientCM.C().SensorName)

	return h.ErrorFromResponse(err, resp)
}

// PostSessionData uploads one finished session archive. The request
// context allows aborting a hanging upload at process end.
func (r *RestAPI) PostSessionData(ctx context.Context, sessionID string, filePath string) error {
	r.client.SetTimeout(UploadTimeout)
	defer r.client.SetTimeout(RequestTimeout)

	resp, err := r.client.R().
		// Set the context so we can abort
		SetContext(ctx).
		SetFile("in_file", filePath).
		EnableForceChunkedEncoding().
		SetUploadCallbackWithInterval(func(info req.UploadInfo) {
			log.Info("session upload progress",
				zap.String("file", info.FileName),
				zap.Float64("pct", float64(info.UploadedSize)/float64(info.FileSize)*100.0))
		}, 1*time.Second).
		Post("data/" + r.clientCM.C().SensorName + "/" + sessionID)

	return h.ErrorFromResponse(err, resp)
}
