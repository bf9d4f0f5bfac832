package drm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// WidevineUUID is the scheme identifier of the Widevine DRM system.
var WidevineUUID = uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed")

// PropertyDeviceUniqueID is the byte-array property holding the device id.
const PropertyDeviceUniqueID = "deviceUniqueId"

// Distinct failures of the retrieval sequence. Their messages are the
// report text shown after "Unable to retrieve: ".
var (
	ErrCreateSession = errors.New("Failed to create MediaDrm instance") //nolint:staticcheck // report text
	ErrQueryDeviceID = errors.New("Failed to get device unique ID")     //nolint:staticcheck // report text
	ErrEmptyDeviceID = errors.New("Device unique ID is null or empty")  //nolint:staticcheck // report text
)

// Provider opens DRM sessions for a scheme.
type Provider interface {
	Open(scheme uuid.UUID) (Session, error)
}

// Session is an open DRM handle. Release must be called exactly once.
type Session interface {
	PropertyByteArray(name string) ([]byte, error)
	Release()
}

// DeviceUniqueID opens a Widevine session on p, reads the device-unique id
// and returns it Base64 encoded.
func DeviceUniqueID(p Provider, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = UnavailableProvider{}
	}

	session, err := p.Open(WidevineUUID)
	if err != nil || session == nil {
		if session != nil {
			session.Release()
		}
		logger.Error("failed to create DRM session", "scheme", WidevineUUID.String(), "error", err)
		return "", ErrCreateSession
	}
	defer session.Release()

	raw, err := session.PropertyByteArray(PropertyDeviceUniqueID)
	if err != nil {
		logger.Error("failed to get device unique ID", "error", err)
		return "", ErrQueryDeviceID
	}
	if len(raw) == 0 {
		logger.Error("device unique ID is null or empty")
		return "", ErrEmptyDeviceID
	}

	logger.Info("DRM ID retrieved", "length", len(raw))
	return Encode(raw), nil
}

// Encode returns b in standard Base64 with padding and no line breaks.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// UnavailableProvider is used where no DRM framework exists.
type UnavailableProvider struct{}

// Open always fails.
func (UnavailableProvider) Open(uuid.UUID) (Session, error) {
	return nil, errors.New("no DRM framework available")
}

// FileProvider serves a device-unique id that was exported to a file.
// Only the Widevine scheme is supported.
type FileProvider struct {
	Path string
}

// Open verifies the scheme and that the id file is present.
func (f FileProvider) Open(scheme uuid.UUID) (Session, error) {
	if scheme != WidevineUUID {
		return nil, fmt.Errorf("unsupported scheme %s", scheme)
	}
	if _, err := os.Stat(f.Path); err != nil {
		return nil, fmt.Errorf("open DRM id file: %w", err)
	}
	return &fileSession{path: f.Path}, nil
}

type fileSession struct {
	path     string
	released bool
}

func (s *fileSession) PropertyByteArray(name string) ([]byte, error) {
	if s.released {
		return nil, errors.New("session released")
	}
	if name != PropertyDeviceUniqueID {
		return nil, fmt.Errorf("unknown property %q", name)
	}
	return os.ReadFile(s.path)
}

func (s *fileSession) Release() {
	s.released = true
}
