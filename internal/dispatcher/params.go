package dispatcher

// SubscriptionParam is embedded by actions that act within a subscription.
// When SubscriptionID is omitted the cloud context supplies it.
type SubscriptionParam struct {
	SubscriptionID string `json:"subscriptionId,omitempty" jsonschema:"description=Subscription ID. Defaults to the context subscription."`
}

// EnvironmentParams adds an optional environment, also defaulted from the
// cloud context.
type EnvironmentParams struct {
	SubscriptionParam
	EnvironmentID string `json:"environmentId,omitempty" jsonschema:"description=Environment ID. Defaults to the context environment."`
}

type noParams struct{}

type setContextParams struct {
	SubscriptionID *string `json:"subscriptionId,omitempty" jsonschema:"description=Default subscription for later calls"`
	EnvironmentID  *string `json:"environmentId,omitempty" jsonschema:"description=Default environment for later calls"`
	CLIURL         *string `json:"cliUrl,omitempty" jsonschema:"description=Cloud API endpoint passed to the CLI"`
}

type auditLogsParams struct {
	Limit *int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=1000,default=50,description=Number of most recent entries"`
}

type createEnvironmentParams struct {
	SubscriptionParam
	Name string `json:"name" jsonschema:"description=Environment name"`
	Type string `json:"type,omitempty" jsonschema:"description=Environment type such as test or prod"`
}

type appParams struct {
	EnvironmentParams
	AppID string `json:"appId" jsonschema:"description=Application ID"`
}

type deployAppParams struct {
	EnvironmentParams
	AppID      string `json:"appId" jsonschema:"description=Application ID"`
	ArtifactID string `json:"artifactId" jsonschema:"description=Artifact to deploy"`
}

type appLogsParams struct {
	EnvironmentParams
	AppID string `json:"appId" jsonschema:"description=Application ID"`
	Tail  *int   `json:"tail,omitempty" jsonschema:"minimum=1,maximum=10000,description=Number of trailing lines"`
}

type createArtifactParams struct {
	SubscriptionParam
	Path string `json:"path" jsonschema:"description=Local path of the package to upload"`
	Name string `json:"name,omitempty" jsonschema:"description=Artifact name"`
}

type showJobParams struct {
	SubscriptionParam
	JobID string `json:"jobId" jsonschema:"description=Job ID"`
}

type jobLogsParams struct {
	JobID string `json:"jobId" jsonschema:"description=Job ID"`
}

type applyManifestParams struct {
	EnvironmentParams
	Path   string `json:"path" jsonschema:"description=Manifest file to apply"`
	DryRun bool   `json:"dryRun,omitempty" jsonschema:"description=Validate without applying"`
}

const (
	scopeSubscription = "subscription"
	scopeEnvironment  = "environment"
	resourceApp       = "app"
)

// SecretScopeParams selects whether a secret belongs to the subscription or
// to one environment.
type SecretScopeParams struct {
	EnvironmentParams
	Scope string `json:"scope" jsonschema:"enum=subscription,enum=environment,description=Where the secret lives"`
}

type secretCreateParams struct {
	SecretScopeParams
	Name  string `json:"name" jsonschema:"description=Secret name"`
	Value string `json:"value" jsonschema:"description=Secret value"`
}

type secretDeleteParams struct {
	SecretScopeParams
	Name string `json:"name" jsonschema:"description=Secret name"`
}

type servicePrincipalCreateParams struct {
	SubscriptionParam
	Name string `json:"name" jsonschema:"description=Service principal name"`
	Role string `json:"role,omitempty" jsonschema:"description=Initial role"`
}

// AccessTargetParams names the resource an access-control rule applies to.
type AccessTargetParams struct {
	EnvironmentParams
	ResourceType string `json:"resourceType" jsonschema:"enum=subscription,enum=environment,enum=app,description=Resource the rule applies to"`
	AppID        string `json:"appId,omitempty" jsonschema:"description=Application ID when resourceType is app"`
}

type accessControlAddParams struct {
	AccessTargetParams
	PrincipalID string `json:"principalId" jsonschema:"description=User or service principal ID"`
	Role        string `json:"role" jsonschema:"description=Role to grant"`
}

type accessControlRemoveParams struct {
	AccessTargetParams
	PrincipalID string `json:"principalId" jsonschema:"description=User or service principal ID"`
	Role        string `json:"role,omitempty" jsonschema:"description=Role to revoke. All roles when omitted."`
}
