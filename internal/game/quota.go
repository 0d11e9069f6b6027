package game

// QuotaInput 汇集配额判定所需的全部事实。
// TotalPlaysUsed 从PlaySession表回数得出，而不是信任账本上的计数字段。
type QuotaInput struct {
	// DayIndex 是"现在"所在的虚拟日序号。
	DayIndex int64
	// TotalPlaysUsed 是发布以来被接受的提交总数。
	TotalPlaysUsed int64
	// GrantTotal / GrantUsed 来自推荐资格行，没有资格时都为0。
	GrantTotal int
	GrantUsed  int
}

// QuotaResult 是配额引擎的判定结果。
type QuotaResult struct {
	BasePlaysAllowed  int64
	BaseRemaining     int64
	ReferralRemaining int64
	PlaysRemaining    int64
	CanPlay           bool
	// ClampEngaged 表示推荐已用数超过了总用量，发生过部分写入竞态。
	// 判定已被防御性钳制修正，调用方应记录但不应失败。
	ClampEngaged bool
}

// ComputeQuota 回答"这个钱包现在还能玩几次"。
// 基础配额按虚拟日逐日解锁（含第0日），推荐单位在其上叠加。
// 推荐已用数与总用量由不同的写操作维护，中间的崩溃或乱序
// 不允许产生负的基础余量，所以这里对已用数做钳制。
func ComputeQuota(in QuotaInput) QuotaResult {
	basePlaysAllowed := in.DayIndex + 1
	if basePlaysAllowed < 1 {
		basePlaysAllowed = 1
	}

	referralRemaining := int64(in.GrantTotal - in.GrantUsed)
	if referralRemaining < 0 {
		referralRemaining = 0
	}

	referralUsedSafe := int64(in.GrantUsed)
	clampEngaged := false
	if referralUsedSafe > in.TotalPlaysUsed {
		referralUsedSafe = in.TotalPlaysUsed
		clampEngaged = true
	}

	baseUsed := in.TotalPlaysUsed - referralUsedSafe
	if baseUsed < 0 {
		baseUsed = 0
	}

	baseRemaining := basePlaysAllowed - baseUsed
	if baseRemaining < 0 {
		baseRemaining = 0
	}

	playsRemaining := baseRemaining + referralRemaining

	return QuotaResult{
		BasePlaysAllowed:  basePlaysAllowed,
		BaseRemaining:     baseRemaining,
		ReferralRemaining: referralRemaining,
		PlaysRemaining:    playsRemaining,
		CanPlay:           playsRemaining > 0,
		ClampEngaged:      clampEngaged,
	}
}
