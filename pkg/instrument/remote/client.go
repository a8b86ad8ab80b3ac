// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	"github.com/astroufsc/fitsheaders/pkg/defaults"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

// UserAgent is sent with every instrument request.
const UserAgent = "headersd/1.0"

// maxResponseBytes caps the size of a single member response.
const maxResponseBytes = 1 << 20

// Members of the instrument wire protocol.
const (
	MemberPing             = "ping"
	MemberMetadataMethod   = "metadata_method"
	MemberAttributes       = "attributes"
	MemberPhysicalSize     = "physical_size"
	MemberPixelSize        = "pixel_size"
	MemberExtraHeaderInfo  = "extra_header_info"
	MemberReadoutModeInfo  = "readout_mode_info"
	MemberFilter           = "filter"
	MemberSlitOpen         = "slit_open"
	MemberMode             = "mode"
	MemberAz               = "az"
	MemberPosition         = "position"
	MemberOffset           = "offset"
	MemberRA               = "ra"
	MemberDec              = "dec"
	MemberAlt              = "alt"
	MemberTargetRaDec      = "target_radec"
	MemberParallacticAngle = "parallactic_angle"
	MemberSensors          = "sensors"
	MemberPSOrientation    = "ps_orientation"
	MemberWindSpeed        = "wind_speed"
	MemberWindDirection    = "wind_dir"
	MemberHumidity         = "humidity"
	MemberPressure         = "pressure"
	MemberTemperature      = "temperature"
	MemberSeeing           = "seeing"
	MemberFlux             = "flux"
	MemberObsTime          = "obs_time"
)

// Envelope is the body of every member response and of the registration request.
type Envelope struct {
	Value json.RawMessage `json:"value"`
	Error string          `json:"error,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the total timeout of a single telemetry read.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// Client is an HTTP proxy to one remote instrument. It implements every
// instrument handle interface; which ones are meaningful depends on the
// instrument behind the location.
type Client struct {
	baseURL   string
	location  string
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

var (
	_ instrument.Camera         = (*Client)(nil)
	_ instrument.Dome           = (*Client)(nil)
	_ instrument.Focuser        = (*Client)(nil)
	_ instrument.Telescope      = (*Client)(nil)
	_ instrument.Site           = (*Client)(nil)
	_ instrument.WeatherStation = (*Client)(nil)
	_ instrument.SeeingMonitor  = (*Client)(nil)
)

// NewClient returns a proxy to the instrument at location served from baseURL.
func NewClient(baseURL, location string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		location:  "/" + strings.Trim(location, "/"),
		timeout:   defaults.TelemetryReadTimeout,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newDefaultHTTPClient()
	}
	return c
}

func newDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaults.HTTPClientTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
		},
	}
}

// Location returns the instrument location, without the base URL.
func (c *Client) Location() string {
	return c.location
}

// BaseURL returns the URL of the manager serving the instrument.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) memberURL(member string, query url.Values) string {
	u := c.baseURL + c.location + "/" + member
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) errContext(member string) map[string]any {
	return map[string]any{"location": c.location, "member": member}
}

// do performs one request and decodes the envelope value into out, when out is not nil.
func (c *Client) do(ctx context.Context, method, member string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fherrors.WrapWithContext(fherrors.ErrCodeInternal, "failed to encode request", err, c.errContext(member))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.memberURL(member, query), reader)
	if err != nil {
		return fherrors.WrapWithContext(fherrors.ErrCodeUnreachable, "failed to build request", err, c.errContext(member))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fherrors.WrapWithContext(fherrors.ErrCodeUnreachable, "instrument request failed", err, c.errContext(member))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fherrors.WrapWithContext(fherrors.ErrCodeUnreachable, "failed to read instrument response", err, c.errContext(member))
	}

	var env Envelope
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			return fherrors.WrapWithContext(fherrors.ErrCodeTelemetryUnavailable, "invalid instrument response", err, c.errContext(member))
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ctxMap := c.errContext(member)
		ctxMap["status"] = resp.StatusCode
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fherrors.NewWithContext(fherrors.ErrCodeTelemetryUnavailable, msg, ctxMap)
	}

	if out == nil {
		return nil
	}
	if len(env.Value) == 0 {
		return fherrors.NewWithContext(fherrors.ErrCodeTelemetryUnavailable, "instrument response has no value", c.errContext(member))
	}

	dec := json.NewDecoder(bytes.NewReader(env.Value))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fherrors.WrapWithContext(fherrors.ErrCodeTelemetryUnavailable,
			fmt.Sprintf("unexpected %s value", member), err, c.errContext(member))
	}
	return nil
}

func (c *Client) get(ctx context.Context, member string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.do(ctx, http.MethodGet, member, query, nil, out)
}

// Ping checks the instrument answers. Any failure means the instrument is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.InstrumentPingTimeout)
	defer cancel()

	var alive bool
	if err := c.do(ctx, http.MethodGet, MemberPing, nil, nil, &alive); err != nil {
		if fherrors.IsCode(err, fherrors.ErrCodeUnreachable) {
			return err
		}
		return fherrors.WrapWithContext(fherrors.ErrCodeUnreachable, "instrument ping failed", err, c.errContext(MemberPing))
	}
	if !alive {
		return fherrors.NewWithContext(fherrors.ErrCodeUnreachable, "instrument is not alive", c.errContext(MemberPing))
	}
	return nil
}

// SetMetadataMethod registers address as the metadata callback. An empty
// address is sent as null and deregisters.
func (c *Client) SetMetadataMethod(ctx context.Context, address string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.InstrumentRegisterTimeout)
	defer cancel()

	body := map[string]any{"value": nil}
	if address != "" {
		body["value"] = address
	}
	return c.do(ctx, http.MethodPut, MemberMetadataMethod, nil, body, nil)
}

// Attribute reads a configuration attribute. Numbers are returned as json.Number.
func (c *Client) Attribute(ctx context.Context, name string) (any, error) {
	var v any
	if err := c.get(ctx, MemberAttributes+"/"+url.PathEscape(name), nil, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) PhysicalSize(ctx context.Context) (instrument.Size, error) {
	var s instrument.Size
	err := c.get(ctx, MemberPhysicalSize, nil, &s)
	return s, err
}

func (c *Client) PixelSize(ctx context.Context) (instrument.PixelSize, error) {
	var s instrument.PixelSize
	err := c.get(ctx, MemberPixelSize, nil, &s)
	return s, err
}

func (c *Client) ExtraHeaderInfo(ctx context.Context) (instrument.FrameInfo, error) {
	var fi instrument.FrameInfo
	err := c.get(ctx, MemberExtraHeaderInfo, nil, &fi)
	return fi, err
}

func (c *Client) ReadoutModeInfo(ctx context.Context, binning, window string) (instrument.ReadoutMode, error) {
	q := url.Values{}
	if binning != "" {
		q.Set("binning", binning)
	}
	if window != "" {
		q.Set("window", window)
	}
	var m instrument.ReadoutMode
	err := c.get(ctx, MemberReadoutModeInfo, q, &m)
	return m, err
}

func (c *Client) Filter(ctx context.Context) (string, error) {
	var f string
	err := c.get(ctx, MemberFilter, nil, &f)
	return f, err
}

func (c *Client) IsSlitOpen(ctx context.Context) (bool, error) {
	var open bool
	err := c.get(ctx, MemberSlitOpen, nil, &open)
	return open, err
}

func (c *Client) Mode(ctx context.Context) (string, error) {
	var m string
	err := c.get(ctx, MemberMode, nil, &m)
	return m, err
}

func (c *Client) angle(ctx context.Context, member string) (coord.Angle, error) {
	var deg float64
	err := c.get(ctx, member, nil, &deg)
	return coord.FromDegrees(deg), err
}

func (c *Client) Az(ctx context.Context) (coord.Angle, error) {
	return c.angle(ctx, MemberAz)
}

func (c *Client) axisValue(ctx context.Context, member string, axis instrument.Axis) (float64, error) {
	var v float64
	err := c.get(ctx, member, url.Values{"axis": {string(axis)}}, &v)
	return v, err
}

func (c *Client) Position(ctx context.Context, axis instrument.Axis) (float64, error) {
	return c.axisValue(ctx, MemberPosition, axis)
}

func (c *Client) Offset(ctx context.Context, axis instrument.Axis) (float64, error) {
	return c.axisValue(ctx, MemberOffset, axis)
}

func (c *Client) RA(ctx context.Context) (coord.Angle, error) {
	return c.angle(ctx, MemberRA)
}

func (c *Client) Dec(ctx context.Context) (coord.Angle, error) {
	return c.angle(ctx, MemberDec)
}

func (c *Client) Alt(ctx context.Context) (coord.Angle, error) {
	return c.angle(ctx, MemberAlt)
}

func (c *Client) TargetRaDec(ctx context.Context) (coord.Position, error) {
	var p coord.Position
	err := c.get(ctx, MemberTargetRaDec, nil, &p)
	return p, err
}

func (c *Client) ParallacticAngle(ctx context.Context) (coord.Angle, error) {
	return c.angle(ctx, MemberParallacticAngle)
}

func (c *Client) Sensors(ctx context.Context) ([]instrument.Sensor, error) {
	var s []instrument.Sensor
	err := c.get(ctx, MemberSensors, nil, &s)
	return s, err
}

func (c *Client) PierSideOrientation(ctx context.Context) (instrument.Orientation, error) {
	var o instrument.Orientation
	err := c.get(ctx, MemberPSOrientation, nil, &o)
	return o, err
}

func (c *Client) quantity(ctx context.Context, member string) (instrument.Quantity, error) {
	var q instrument.Quantity
	err := c.get(ctx, member, nil, &q)
	return q, err
}

func (c *Client) WindSpeed(ctx context.Context) (instrument.Quantity, error) {
	return c.quantity(ctx, MemberWindSpeed)
}

func (c *Client) WindDirection(ctx context.Context) (instrument.Quantity, error) {
	return c.quantity(ctx, MemberWindDirection)
}

func (c *Client) Humidity(ctx context.Context) (instrument.Quantity, error) {
	return c.quantity(ctx, MemberHumidity)
}

func (c *Client) Pressure(ctx context.Context) (instrument.Quantity, error) {
	return c.quantity(ctx, MemberPressure)
}

func (c *Client) Temperature(ctx context.Context) (instrument.Quantity, error) {
	return c.quantity(ctx, MemberTemperature)
}

// Seeing reads the seeing in arcseconds.
func (c *Client) Seeing(ctx context.Context) (float64, error) {
	var q instrument.Quantity
	err := c.get(ctx, MemberSeeing, url.Values{"unit": {"arcsec"}}, &q)
	return q.Value, err
}

// Flux reads the star flux in counts.
func (c *Client) Flux(ctx context.Context) (float64, error) {
	var q instrument.Quantity
	err := c.get(ctx, MemberFlux, url.Values{"unit": {"count"}}, &q)
	return q.Value, err
}

func (c *Client) ObsTime(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := c.get(ctx, MemberObsTime, nil, &t)
	return t, err
}
