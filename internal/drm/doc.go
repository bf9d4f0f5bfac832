// Package drm retrieves the device-unique identifier from a DRM provider.
//
// The identifier is requested from a Widevine session and returned as
// standard Base64. A Provider abstracts the platform DRM framework so the
// retrieval sequence can run against a provisioned identifier file or a
// test double.
//
// # Session Lifecycle
//
// DeviceUniqueID releases the session on every exit path, including a
// panic raised by the provider while the property is being queried.
package drm
