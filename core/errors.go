package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Engine 错误：NOT_FOUND（未知客户/商品）、UNAVAILABLE（模型未就绪）
//   - Model 错误：TRAINING_FAILURE、TRAINING_IN_PROGRESS
//   - Config 错误：INVALID_CONFIG（启动期校验失败，绝不在请求期出现）
//   - Store 错误：NOT_FOUND、NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_CONFIG"）
	Message string // 错误消息
	Module  string // 模块名称（如 "engine", "model", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound           = "NOT_FOUND"            // 客户/商品/key 不存在
	ErrorCodeNotSupported       = "NOT_SUPPORTED"        // 操作不支持
	ErrorCodeUnavailable        = "UNAVAILABLE"          // 模型未就绪 / 服务不可用
	ErrorCodeInvalidConfig      = "INVALID_CONFIG"       // 配置无效（启动期错误）
	ErrorCodeTrainingFailure    = "TRAINING_FAILURE"     // 数据加载或矩阵构建失败
	ErrorCodeTrainingInProgress = "TRAINING_IN_PROGRESS" // 已有训练在执行
	ErrorCodeInternalError      = "INTERNAL_ERROR"       // 内部错误
)

// 模块名称常量
const (
	ModuleEngine  = "engine"  // 推荐引擎模块
	ModuleModel   = "model"   // 模型生命周期模块
	ModuleStore   = "store"   // 存储模块
	ModuleDataset = "dataset" // 数据访问模块
	ModuleConfig  = "config"  // 配置模块
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidConfig 检查错误是否为 INVALID_CONFIG
func IsInvalidConfig(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidConfig
	}
	return false
}

// IsTrainingFailure 检查错误是否为 TRAINING_FAILURE
func IsTrainingFailure(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeTrainingFailure
	}
	return false
}

// 常用错误实例

var (
	// ErrCustomerNotFound 表示客户不存在于数据集中
	ErrCustomerNotFound = NewDomainError(ModuleEngine, ErrorCodeNotFound, "engine: customer not found")

	// ErrProductNotFound 表示商品不存在于数据集中
	ErrProductNotFound = NewDomainError(ModuleEngine, ErrorCodeNotFound, "engine: product not found")

	// ErrModelNotReady 表示尚未有一次成功的 Train
	ErrModelNotReady = NewDomainError(ModuleModel, ErrorCodeUnavailable, "model: no snapshot available, train first")

	// ErrTrainingInProgress 表示已有一次训练在执行中
	ErrTrainingInProgress = NewDomainError(ModuleModel, ErrorCodeTrainingInProgress, "model: training already in progress")
)
