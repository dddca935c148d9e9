package breadcrumbscmd

// FeatureGates exposes the runtime toggles read by the handlers. Nil
// functions count as enabled.
type FeatureGates struct {
	CacheEnabled    func() bool
	ImporterEnabled func() bool
}

func (g FeatureGates) cacheEnabled() bool {
	return g.CacheEnabled == nil || g.CacheEnabled()
}

func (g FeatureGates) importerEnabled() bool {
	return g.ImporterEnabled == nil || g.ImporterEnabled()
}
